package service

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ValidationError 入参不合法, 对应 422
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// NotFoundError 目标不存在或不可见, 对应 404
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{Msg: msg}
}

// ConflictError 并发竞争重试后仍失败, 对应 409
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func NewConflictError(msg string) *ConflictError {
	return &ConflictError{Msg: msg}
}

// isDuplicateEntry 判断是否唯一键冲突(MySQL 1062)
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}
