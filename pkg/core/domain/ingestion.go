package domain

import "fmt"

// IngestionResult 一次摄入的统计，单条记录失败不会中止整个流
type IngestionResult struct {
	Total   int      `json:"total" yaml:"total"`
	Success int      `json:"success" yaml:"success"`
	Failed  int      `json:"failed" yaml:"failed"`
	Errors  []string `json:"errors" yaml:"errors"`
}

// Reject 记录一条失败的记录
func (r *IngestionResult) Reject(format string, args ...any) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
