package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"gemapi/internal/generate"
	"gemapi/internal/logger"

	"github.com/gin-gonic/gin"
)

// Handler 把 HTTP 请求转换为 generate.Service 调用。
type Handler struct {
	svc      *generate.Service
	maxBytes int64
}

func NewHandler(svc *generate.Service, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

// Register 挂载生成相关路由。
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/generate-text", h.limitBody(), h.handleText)
	r.POST("/generate-from-image", h.limitBody(), h.handleImage)
	r.POST("/generate-from-audio", h.limitBody(), h.handleAudio)
	r.POST("/generate-from-video", h.limitBody(), h.handleVideo)
}

type textRequest struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) handleText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge := bodyTooLarge(err); tooLarge != nil {
			h.fail(c, "generate-text", tooLarge)
			return
		}
		// 无法解析的请求体按缺少 prompt 处理
		logger.Debugf("generate-text: bind failed: %v", err)
	}
	out, err := h.svc.Text(c.Request.Context(), req.Prompt)
	if err != nil {
		h.fail(c, "generate-text", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": out})
}

func (h *Handler) handleImage(c *gin.Context) {
	fh, err := h.formFile(c, "image")
	if err != nil {
		h.fail(c, "generate-from-image", err)
		return
	}
	out, err := h.svc.Image(c.Request.Context(), generate.ImageRequest{
		Prompt: c.PostForm("prompt"),
		File:   fh,
	})
	if err != nil {
		h.fail(c, "generate-from-image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": out})
}

func (h *Handler) handleAudio(c *gin.Context) {
	fh, err := h.formFile(c, "audio")
	if err != nil {
		h.fail(c, "generate-from-audio", err)
		return
	}
	adv, err := h.svc.Audio(c.Request.Context(), fh)
	if err != nil {
		h.fail(c, "generate-from-audio", err)
		return
	}
	c.JSON(http.StatusOK, adv)
}

func (h *Handler) handleVideo(c *gin.Context) {
	fh, err := h.formFile(c, "video")
	if err != nil {
		h.fail(c, "generate-from-video", err)
		return
	}
	adv, err := h.svc.Video(c.Request.Context(), fh)
	if err != nil {
		h.fail(c, "generate-from-video", err)
		return
	}
	c.JSON(http.StatusOK, adv)
}

func (h *Handler) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
		}
		c.Next()
	}
}

// formFile 取出表单文件。缺失或无法解析时返回 (nil, nil)，由 Service 报告 400；
// 只有超出大小上限才直接返回错误。
func (h *Handler) formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err == nil {
		return fh, nil
	}
	if tooLarge := bodyTooLarge(err); tooLarge != nil {
		return nil, tooLarge
	}
	if !errors.Is(err, http.ErrMissingFile) {
		logger.Debugf("form file %s: %v", field, err)
	}
	return nil, nil
}

// bodyTooLarge 识别 MaxBytesReader 触发的错误，转换为 413。
func bodyTooLarge(err error) error {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return nil
	}
	return generate.ClientInputWithStatus(http.StatusRequestEntityTooLarge,
		fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
}

func (h *Handler) fail(c *gin.Context, route string, err error) {
	gerr := generate.Classify(err)
	status := gerr.Status
	switch gerr.Kind {
	case generate.KindClientInput:
		logger.Warnf("%s: rejected: %s", route, gerr.Message)
	case generate.KindProvider:
		logger.Errorf("%s: %s error: %v", route, gerr.Kind, err)
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
	case generate.KindInternal:
		logger.Errorf("%s: %s error: %v", route, gerr.Kind, err)
		status = http.StatusInternalServerError
	default:
		logger.Errorf("%s: unclassified error: %v", route, err)
		status = http.StatusInternalServerError
	}
	body := gin.H{"error": gerr.Message}
	if gerr.Details != nil {
		body["details"] = gerr.Details
	}
	c.JSON(status, body)
}
