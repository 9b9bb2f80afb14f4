package errno

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrInvalidParam = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrNotFound     = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// 业务错误码
	ErrMissingParam    = &Errno{Code: 20001, Message: "Missing required parameter"}
	ErrFileNameIllegal = &Errno{Code: 20002, Message: "File name is illegal"}
	ErrUploadError     = &Errno{Code: 20003, Message: "Upload error"}

	// 视频/HLS错误码
	ErrVideoNotFound      = &Errno{Code: 20010, Message: "Video not found"}
	ErrKeyNotFound        = &Errno{Code: 20011, Message: "Encryption key not found"}
	ErrEntropyUnavailable = &Errno{Code: 20012, Message: "Secure random source unavailable"}
	ErrStorageIO          = &Errno{Code: 20013, Message: "Storage I/O failure"}
	ErrTranscodeFailed    = &Errno{Code: 20014, Message: "Transcode failed"}
	ErrManifestMissing    = &Errno{Code: 20015, Message: "Playlist not found"}
	ErrSegmentMissing     = &Errno{Code: 20016, Message: "Segment not found"}
)
