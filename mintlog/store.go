package mintlog

import "fmt"

// ListName is the single list the storefront writes to.
const ListName = "trainer-mints"

// Store is an append-to-head list of serialized entries. Push prepends, All
// returns every raw entry newest first. Entries are opaque strings on this
// level; callers parse them best-effort so that a non-JSON entry still
// passes through.
type Store interface {
	Push(list string, entry string) error
	All(list string) ([]string, error)
	Close() error
}

type StoreConfig struct {
	// Method selects the backend: "leveldb" (default) or "mysql".
	Method string
	// Path is the leveldb directory.
	Path string
	// DSN is the mysql connection string.
	DSN string
}

func Open(cfg StoreConfig) (Store, error) {
	switch cfg.Method {
	case "", "leveldb":
		return OpenLevelDBStore(cfg.Path)
	case "mysql":
		return OpenSQLStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store method: %s", cfg.Method)
	}
}
