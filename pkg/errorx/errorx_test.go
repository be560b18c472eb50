package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCodeAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeDBError, "查询失败")

	if GetCode(err) != CodeDBError {
		t.Errorf("code = %d, want %d", GetCode(err), CodeDBError)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if err.Error() != "查询失败: connection refused" {
		t.Errorf("message = %q", err.Error())
	}

	// 再包一层 fmt.Errorf 后仍能取到业务码
	outer := fmt.Errorf("service: %w", err)
	if GetCode(outer) != CodeDBError {
		t.Errorf("nested code = %d, want %d", GetCode(outer), CodeDBError)
	}
}

func TestGetCodeFallback(t *testing.T) {
	if GetCode(errors.New("plain")) != CodeServerBusy {
		t.Error("plain error should fall back to server busy")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeInvalidPassword, http.StatusBadRequest},
		{CodeUserExist, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeUserNotExist, http.StatusNotFound},
		{CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{CodeServerBusy, http.StatusInternalServerError},
		{CodeDBError, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.code); got != c.want {
			t.Errorf("HTTPStatus(%d) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(CodeNotFound, "不存在")) {
		t.Error("CodeNotFound should be not-found")
	}
	if !IsNotFound(errors.New("record not found")) {
		t.Error("gorm record-not-found message should be not-found")
	}
	if IsNotFound(ErrForbidden) {
		t.Error("forbidden should not be not-found")
	}
	if IsNotFound(nil) {
		t.Error("nil should not be not-found")
	}
}
