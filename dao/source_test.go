package dao

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateContent(t *testing.T) {
	// 1. 短文本原样返回
	if got := truncateContent("hello"); got != "hello" {
		t.Errorf("短文本不应截断, 得到 %q", got)
	}

	// 2. 恰好到上限不加省略号
	exact := strings.Repeat("a", previewMaxRunes)
	if got := truncateContent(exact); got != exact {
		t.Errorf("恰好达到上限不应截断, 得到长度 %d", len(got))
	}

	// 3. 超长文本按字符数截断并追加省略号
	long := strings.Repeat("a", previewMaxRunes+50)
	got := truncateContent(long)
	if utf8.RuneCountInString(got) != previewMaxRunes+3 {
		t.Errorf("截断后应为 %d 个字符, 得到 %d", previewMaxRunes+3, utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("截断后应以省略号结尾, 得到 %q", got)
	}

	// 4. 多字节字符按字符截断, 不会切出半个字
	cjk := strings.Repeat("测", previewMaxRunes+10)
	got = truncateContent(cjk)
	if !utf8.ValidString(got) {
		t.Error("截断结果必须是合法 UTF-8")
	}
	if utf8.RuneCountInString(got) != previewMaxRunes+3 {
		t.Errorf("多字节文本截断后应为 %d 个字符, 得到 %d", previewMaxRunes+3, utf8.RuneCountInString(got))
	}
}
