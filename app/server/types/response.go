package types

// Response 所有接口共用的响应信封
type Response struct {
	APIVersion string      `json:"apiVersion"`
	Data       interface{} `json:"data,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Errors  []ErrorItem `json:"errors,omitempty"`
}

// ErrorItem 输入校验错误的明细，方便客户端在对应的表单项上展示
type ErrorItem struct {
	Location     string `json:"location"`
	LocationType string `json:"locationType"`
	Message      string `json:"message"`
}
