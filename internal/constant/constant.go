package constant

const (
	DefaultTableName        = "paketpilot-shipments"
	DefaultRetryMaxAttempts = 10
	DefaultContentLogKey    = "savedQRCodeContents"
	DefaultContentLogFile   = "contents.json"
	DefaultConfigDirName    = ".paketpilot"
	DefaultQRCodeSize       = 256
	DefaultListenAddr       = ":8080"
	MaxBatchWriteItems      = 25
)
