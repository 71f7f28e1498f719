// Package jupyter talks to locally running notebook servers.
//
// Servers advertise themselves by writing a JSON file into the Jupyter
// runtime directory: nbserver-<pid>.json for the classic notebook server,
// jpserver-<pid>.json for jupyter_server. RuntimeDirectory enumerates those
// files and Client queries each server's REST API.
//
// Built on go-resty/resty with a pooled transport from go-retryablehttp.
// Retries are disabled: a failed request surfaces to the caller as-is.
//
// Example Usage:
//
//	dir := jupyter.NewDirectory(jupyter.NewRuntimeDirectory(path, "", logger), jupyter.NewClient(jupyter.ClientConfig{}))
//	servers, err := dir.Servers(ctx)
//	sessions, err := dir.Sessions(ctx, servers[0])
package jupyter
