package provider

import (
	"context"
	"fmt"
)

// NoResponseText 是模型没有返回任何文本时的占位结果。
const NoResponseText = "(no response)"

// Part 是随提示词一起发送的二进制内容。
type Part struct {
	Data     []byte
	MIMEType string
}

func (p Part) String() string {
	return fmt.Sprintf("%s %d bytes", p.MIMEType, len(p.Data))
}

// Generator 调用远端模型生成文本。
type Generator interface {
	Generate(ctx context.Context, model, prompt string, parts []Part) (string, error)
}
