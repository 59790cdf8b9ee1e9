package constants

type ContextKey string

const (
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	UserKey      ContextKey = "user"
	LoggerKey    ContextKey = "logger"
	RequestStart ContextKey = "requestStart"
)
