package ai

import "fmt"

// TransportError 表示网络层/凭证层失败（服务不可达、非2xx、缺少API密钥）
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ai transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError 表示响应不符合请求的输出形状（要求JSON却无法解析）
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ai parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
