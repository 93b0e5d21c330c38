package config

import (
	"fmt"
	"os"
)

const defaultConfigTemplate = `# debbuilder configuration
ros_distro: jazzy
os_release: noble

# Where to look for packages (directories holding a package.xml).
source_dir: .
# Unanchored regexes applied to each package's directory path.
whitelist: ".*"
# blacklist: ".*_test$"

# Build all selected packages together before packaging, so cross-package
# build dependencies resolve.
workspace_mode: false

# work_dir: /tmp/debbuilder
output_dir: ./packages

# history:
#   path: ./debbuilder-history.db
# metrics:
#   textfile: /var/lib/node_exporter/textfile/debbuilder.prom
`

// Init writes a starter configuration file. Refuses to overwrite an existing
// file unless force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0o640); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
