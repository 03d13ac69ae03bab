package types

// Keys and discriminator values of the Postman collection v2.x format. The
// collection is read as a generic JSON tree so that malformed items degrade
// field by field instead of failing the whole decode.
const (
	PostmanKeyInfo       = "info"
	PostmanKeyName       = "name"
	PostmanKeyItem       = "item"
	PostmanKeyRequest    = "request"
	PostmanKeyEvent      = "event"
	PostmanKeyURL        = "url"
	PostmanKeyRaw        = "raw"
	PostmanKeyMethod     = "method"
	PostmanKeyBody       = "body"
	PostmanKeyMode       = "mode"
	PostmanKeyURLEncoded = "urlencoded"
	PostmanKeyHeader     = "header"
	PostmanKeyKey        = "key"
	PostmanKeyValue      = "value"
	PostmanKeyListen     = "listen"
	PostmanKeyScript     = "script"
	PostmanKeyExec       = "exec"
)

type BodyMode string

const (
	BodyModeRaw        BodyMode = "raw"
	BodyModeURLEncoded BodyMode = "urlencoded"
)

type EventListen string

const (
	EventListenTest       EventListen = "test"
	EventListenPreRequest EventListen = "prerequest"
)
