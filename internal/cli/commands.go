package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/GriffinCanCode/nbtools/internal/kernel"
	"github.com/GriffinCanCode/nbtools/internal/notebook"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPathCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the path of the notebook driving the kernel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := app().Resolver()
			if err != nil {
				return err
			}
			path, err := resolver.Resolve(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newKernelCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "kernel",
		Short: "Describe the kernel named by the connection file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app().Config.Kernel.ConnectionFile
			if path == "" {
				return errNoConnectionFile
			}
			id, err := kernel.IDFromConnectionFile(path)
			if err != nil {
				return err
			}
			info, err := kernel.ReadConnectionFile(path)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\t%s\n", id)
			fmt.Fprintf(tw, "NAME\t%s\n", info.KernelName)
			fmt.Fprintf(tw, "TRANSPORT\t%s://%s\n", info.Transport, info.IP)
			fmt.Fprintf(tw, "PORTS\tshell=%d iopub=%d stdin=%d control=%d hb=%d\n",
				info.ShellPort, info.IOPubPort, info.StdinPort, info.ControlPort, info.HBPort)
			return tw.Flush()
		},
	}
}

func newServersCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List running notebook servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			servers, err := app().Directory.Servers(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "URL\tROOT\tPID")
			for _, s := range servers {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Endpoint(), s.Root(), s.PID)
			}
			return tw.Flush()
		},
	}
}

func newSaveCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Emit the save command for the notebook front-end",
		Long: `Save writes a display bundle carrying the classic Notebook save script
to stdout. It only takes effect when stdout is forwarded to the front-end as
display output; printed as cell text it does nothing, and save-html then
relies on the grace period alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Frontend.SaveNotebook(cmd.Context())
		},
	}
}

func newRestartCmd(app func() *App) *cobra.Command {
	var viaServer bool

	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the kernel",
		Long: `Restart emits the front-end restart command. With --via-server the
kernel's session is resolved and the restart is requested from the
notebook server's REST API instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if !viaServer {
				return a.Frontend.RestartKernel(cmd.Context())
			}

			resolver, err := a.Resolver()
			if err != nil {
				return err
			}
			m, err := resolver.Find(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Client.RestartKernel(cmd.Context(), m.Server, m.Session.Kernel.ID); err != nil {
				return err
			}
			a.Logger.Info("kernel restarted", zap.String("kernel", m.Session.Kernel.ID), zap.String("notebook", m.Path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&viaServer, "via-server", false, "restart through the notebook server API")
	return cmd
}

func newExportCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export SOURCE [DESTINATION]",
		Short: "Export a notebook to HTML",
		Long:  "Export renders SOURCE to DESTINATION, by default SOURCE with its extension replaced by .html.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			destination := notebook.HTMLPath(source, "")
			if len(args) == 2 {
				destination = args[1]
			}
			if err := app().Exporter.Export(cmd.Context(), source, destination); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), destination)
			return nil
		},
	}
}

func newSaveHTMLCmd(app func() *App) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "save-html",
		Short: "Save the current notebook and export it to HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app().Service()
			if err != nil {
				return err
			}
			out, err := svc.SaveAsHTML(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "folder for the report (default: next to the notebook)")
	return cmd
}
