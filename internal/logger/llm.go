package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

var (
	llmMu          sync.Mutex
	llmLog         *log.Logger
	llmDumpPayload bool
)

// SetLLMWriter 设置模型请求/响应的独立转储输出；nil 表示关闭。
func SetLLMWriter(w io.Writer) {
	llmMu.Lock()
	defer llmMu.Unlock()
	if w == nil {
		llmLog = nil
		return
	}
	llmLog = log.New(w, "", log.LstdFlags)
}

func EnableLLMPayloadDump(enabled bool) {
	llmMu.Lock()
	llmDumpPayload = enabled
	llmMu.Unlock()
}

type llmSection struct {
	Title string
	Body  string
}

func writeLLM(kind, model string, sections []llmSection) {
	llmMu.Lock()
	out := llmLog
	llmMu.Unlock()
	if out == nil {
		return
	}
	var b strings.Builder
	b.WriteString("[LLM]")
	for _, tag := range []string{kind, model} {
		if tag == "" {
			continue
		}
		b.WriteString("[")
		b.WriteString(tag)
		b.WriteString("]")
	}
	b.WriteString("\n")
	for _, sec := range sections {
		t := strings.TrimSpace(sec.Title)
		if t == "" {
			t = "CONTENT"
		}
		b.WriteString("--- ")
		b.WriteString(t)
		b.WriteString(" ---\n")
		b.WriteString(sec.Body)
		if !strings.HasSuffix(sec.Body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	out.Print(b.String())
}

// LogLLMRequest 记录一次生成请求。parts 只记录 MIME 与大小，原始字节仅在开启 payload dump 时输出长度摘要。
func LogLLMRequest(model, prompt string, parts []string) {
	sections := []llmSection{{Title: "PROMPT", Body: prompt}}
	for i, p := range parts {
		sections = append(sections, llmSection{Title: fmt.Sprintf("PART#%d", i+1), Body: p})
	}
	llmMu.Lock()
	dump := llmDumpPayload
	llmMu.Unlock()
	if !dump && len(sections) > 1 {
		sections = sections[:1]
		sections = append(sections, llmSection{Title: "PARTS", Body: fmt.Sprintf("%d attached", len(parts))})
	}
	writeLLM("request", model, sections)
}

func LogLLMResponse(model, text string) {
	writeLLM("response", model, []llmSection{{Title: "TEXT", Body: text}})
}
