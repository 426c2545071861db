package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010

	// Social graph codes
	SelfFollow           Code = 600001
	AlreadyFollowing     Code = 600002
	NotFollowing         Code = 600003
	AlreadyReposted      Code = 600004
	EmptyComment         Code = 600005
	PartialWriteDetected Code = 600006
)
