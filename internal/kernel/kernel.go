// Package kernel identifies the local kernel from its connection descriptor.
package kernel

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	nberrors "github.com/GriffinCanCode/nbtools/internal/errors"
	"github.com/bytedance/sonic"
)

// ID is the opaque identity a kernel is registered under on a notebook server.
type ID string

var connectionFilePattern = regexp.MustCompile(`^kernel-(.+)\.json$`)

// IDFromConnectionFile extracts the kernel id from a path ending in kernel-<id>.json.
func IDFromConnectionFile(path string) (ID, error) {
	m := connectionFilePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", nberrors.NewLookupError("", fmt.Errorf("%w: %s", nberrors.ErrKernelID, path))
	}
	return ID(m[1]), nil
}

// ConnectionInfo is the content of a kernel connection descriptor.
type ConnectionInfo struct {
	Transport       string `json:"transport"`
	IP              string `json:"ip"`
	ShellPort       int    `json:"shell_port"`
	IOPubPort       int    `json:"iopub_port"`
	StdinPort       int    `json:"stdin_port"`
	ControlPort     int    `json:"control_port"`
	HBPort          int    `json:"hb_port"`
	Key             string `json:"key"`
	SignatureScheme string `json:"signature_scheme"`
	KernelName      string `json:"kernel_name"`
}

// ReadConnectionFile decodes a connection descriptor.
func ReadConnectionFile(path string) (*ConnectionInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nberrors.NewIOError("read", path, err)
	}

	var info ConnectionInfo
	if err := sonic.Unmarshal(data, &info); err != nil {
		return nil, nberrors.NewFormatError(path, "invalid connection file", err)
	}
	return &info, nil
}
