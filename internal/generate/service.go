package generate

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"gemapi/internal/gateway/provider"
	"gemapi/internal/logger"
	"gemapi/internal/pkg/text"
	"gemapi/internal/upload"

	"github.com/gabriel-vasile/mimetype"
)

const (
	msgPromptRequired = "Prompt is required"
	msgImageRequired  = "Image file is required"
	msgAudioRequired  = "Audio file is required"
	msgVideoRequired  = "Video file is required"
	msgStageFailed    = "Failed to stage upload"
	msgReadFailed     = "Failed to read upload"

	AudioAdvisory = "Audio processing is not supported directly. Transcribe the audio to text (speech-to-text) and send the transcript to /generate-text."
	VideoAdvisory = "Video processing is not supported directly. Extract frames from the video and send them to /generate-from-image."
)

// ImageRequest 是图像能力的输入，Prompt 为空时使用默认提示词。
type ImageRequest struct {
	Prompt string
	File   *multipart.FileHeader
}

// Advisory 是音频/视频能力的固定答复。
type Advisory struct {
	Message string `json:"message"`
	File    string `json:"file"`
}

// Service 编排 校验 → 落盘 → 调用模型 → 清理。
type Service struct {
	gen         provider.Generator
	stager      *upload.Stager
	model       string
	imagePrompt string

	readStaged func(*upload.Staged) ([]byte, error)
}

type Options struct {
	Model       string
	ImagePrompt string
}

func NewService(gen provider.Generator, stager *upload.Stager, opts Options) (*Service, error) {
	if gen == nil {
		return nil, errors.New("generate: nil generator")
	}
	if stager == nil {
		return nil, errors.New("generate: nil stager")
	}
	if strings.TrimSpace(opts.ImagePrompt) == "" {
		opts.ImagePrompt = "Describe this image"
	}
	return &Service{
		gen:         gen,
		stager:      stager,
		model:       opts.Model,
		imagePrompt: opts.ImagePrompt,
		readStaged:  (*upload.Staged).ReadAll,
	}, nil
}

// Text 只用提示词调用模型。
func (s *Service) Text(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", clientInput(msgPromptRequired)
	}
	logger.Debugf("generate text model=%s prompt=%q", s.model, text.Truncate(prompt, 120))
	out, err := s.gen.Generate(ctx, s.model, prompt, nil)
	if err != nil {
		return "", Classify(err)
	}
	return out, nil
}

// Image 落盘上传的图片，连同提示词一起调用模型，返回前删除临时文件。
func (s *Service) Image(ctx context.Context, req ImageRequest) (string, error) {
	if req.File == nil {
		return "", clientInput(msgImageRequired)
	}
	staged, err := s.stager.Stage(req.File)
	if err != nil {
		return "", internal(msgStageFailed, err)
	}
	defer staged.Release()

	data, err := s.readStaged(staged)
	if err != nil {
		return "", internal(msgReadFailed, err)
	}
	prompt := req.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = s.imagePrompt
	}
	part := provider.Part{Data: data, MIMEType: partMIMEType(staged.MIMEType, data)}
	logger.Debugf("generate image model=%s file=%s mime=%s size=%d", s.model, staged.OriginalName, part.MIMEType, len(data))
	out, err := s.gen.Generate(ctx, s.model, prompt, []provider.Part{part})
	if err != nil {
		return "", Classify(err)
	}
	return out, nil
}

// Audio 不调用模型：落盘后立即释放，并提示调用方先转写为文本。
func (s *Service) Audio(_ context.Context, fh *multipart.FileHeader) (Advisory, error) {
	return s.advise(fh, msgAudioRequired, AudioAdvisory)
}

// Video 不调用模型：提示调用方先抽帧再走图像接口。
func (s *Service) Video(_ context.Context, fh *multipart.FileHeader) (Advisory, error) {
	return s.advise(fh, msgVideoRequired, VideoAdvisory)
}

func (s *Service) advise(fh *multipart.FileHeader, missing, message string) (Advisory, error) {
	if fh == nil {
		return Advisory{}, clientInput(missing)
	}
	staged, err := s.stager.Stage(fh)
	if err != nil {
		return Advisory{}, internal(msgStageFailed, err)
	}
	defer staged.Release()
	return Advisory{Message: message, File: staged.OriginalName}, nil
}

// partMIMEType 优先使用客户端声明的类型，缺失或为通用二进制时按内容嗅探。
func partMIMEType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}
