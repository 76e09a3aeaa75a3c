package config

// Backend names accepted by store.backend.
const (
	BackendSQLite = "sqlite"
	BackendREST   = "rest"
)

const (
	defaultConfigPath         = "~/.config/labdesk/config.toml"
	defaultDataDir            = "~/.local/share/labdesk"
	defaultLogDir             = "~/.local/share/labdesk/logs"
	defaultSQLiteFile         = "labdesk.db"
	defaultBackend            = BackendSQLite
	defaultTable              = "le_labs_project"
	defaultRESTTimeoutSeconds = 15
	defaultExcludeField       = "hash"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Store: Store{
			Backend: defaultBackend,
			Table:   defaultTable,
		},
		REST: REST{
			TimeoutSeconds: defaultRESTTimeoutSeconds,
		},
		Fingerprint: Fingerprint{
			ExcludeField: defaultExcludeField,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
