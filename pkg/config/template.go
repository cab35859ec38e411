package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// defaultTemplate is the canonical document. Keep [extended-fields] as the
// last table: callers append their own keys to it.
const defaultTemplate = `
# Server settings. Every string-valued setting below accepts "default",
# which leaves the choice to the server that binds these settings.

hosts = [
    ["0.0.0.0", 9000]      # one listener per ["host", port] pair
]
mode = "development"       # "development" or "production"
enable-compression = true  # toggle the compression middleware
enable-log = true          # toggle the request logging middleware

# Number of workers (event loops). Defaults to the number of logical CPUs.
# "default" or an integer N >= 0, e.g. "6".
num-workers = "default"

# Maximum number of pending connections in the listen queue.
# "default" or an integer N >= 0, e.g. "2048".
backlog = "default"

# Maximum number of concurrent connections. New connections are refused
# once the limit is reached. Defaults to 25000.
# "default" or an integer N >= 0, e.g. "1024".
max-connections = "default"

# Maximum number of connections accepted per second. Defaults to 256.
# "default" or an integer N >= 0, e.g. "128".
max-connection-rate = "default"

# TCP keep-alive policy.
# "default", "disabled", "os", or "N seconds", e.g. "75 seconds".
keep-alive = "default"

# Time a client has to send its first bytes before the connection is
# dropped. Defaults to 5000 milliseconds.
# "default", "N milliseconds" or "N seconds".
client-timeout = "default"

# Time a connection has to finish shutting down. Defaults to 5000 milliseconds.
# "default", "N milliseconds" or "N seconds".
client-shutdown = "default"

# Time workers have to finish after a stop signal before they are dropped.
# Defaults to 30 seconds.
# "default", "N milliseconds" or "N seconds".
shutdown-timeout = "default"

[ssl] # disabled until the certificates exist
enabled = false
certificate = "path/to/cert/cert.pem"
private-key = "path/to/cert/key.pem"

# Application-specific settings.
[extended-fields]
`

// Template returns the canonical document, trimmed of surrounding whitespace.
func Template() string {
	return strings.TrimSpace(defaultTemplate)
}

// WriteTemplate creates path and writes Template to it. It never overwrites:
// if anything exists at path it returns *FileExistsError and writes nothing.
func WriteTemplate(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return &FileExistsError{Path: path}
	}
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	if _, err := f.WriteString(Template()); err != nil {
		_ = f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
