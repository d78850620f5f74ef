// Package sanitize 过滤用户提交的 HTML
// 帖子正文保留常见排版标签，评论、摘要等纯文本字段去掉全部标签
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// RichText 过滤帖子正文，移除脚本、事件属性和 javascript: 链接
func RichText(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(richPolicy.Sanitize(input))
}

// PlainText 去掉全部 HTML 标签，返回未转义的纯文本
// StrictPolicy 会把 & ' " 等字符转义成实体，这里还原，输出时由客户端按文本渲染
func PlainText(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(input)))
}
