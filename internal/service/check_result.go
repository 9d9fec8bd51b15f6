package service

// CheckResult 规则校验结果（本地规则与远程校验共用）
type CheckResult struct {
	Valid   bool          `json:"is_valid"`
	Key     string        `json:"key,omitempty"`
	Message string        `json:"message"`
	Args    []interface{} `json:"-"`
	Cause   error         `json:"-"`
}

// Pass 构建通过结果
func Pass(key, message string) CheckResult {
	return CheckResult{Valid: true, Key: key, Message: message}
}

// Reject 构建拒绝结果
func Reject(cause error, key, message string) CheckResult {
	return CheckResult{Valid: false, Key: key, Message: message, Cause: cause}
}

// Err 拒绝时转换为错误，通过时返回 nil
func (r CheckResult) Err() error {
	if r.Valid {
		return nil
	}
	return &RuleError{Key: r.Key, Message: r.Message, Args: r.Args, Cause: r.Cause}
}

// RuleError 业务规则拒绝
type RuleError struct {
	Key     string
	Message string
	Args    []interface{}
	Cause   error
}

func (e *RuleError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Key
}

func (e *RuleError) Unwrap() error {
	return e.Cause
}
