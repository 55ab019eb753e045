package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gemapi/internal/logger"

	"github.com/google/uuid"
)

// ErrNoFile 表示请求中没有上传文件。
var ErrNoFile = errors.New("upload: no file")

// Stager 把单个上传文件落盘到临时目录。
type Stager struct {
	dir string
}

// NewStager 创建 Stager 并确保临时目录存在。
func NewStager(dir string) (*Stager, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "gemapi-uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Stager{dir: dir}, nil
}

func (s *Stager) Dir() string { return s.dir }

// Staged 是请求期间独占的临时文件。调用方必须在所有退出路径上调用 Release。
type Staged struct {
	Path         string
	MIMEType     string
	OriginalName string
	Size         int64

	once sync.Once
	err  error
}

// Stage 将上传内容原样复制到 <uuid>-<原文件名>，不检查也不转码内容。
func (s *Stager) Stage(fh *multipart.FileHeader) (*Staged, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + "-" + sanitizeName(fh.Filename)
	path := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	n, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	staged := &Staged{
		Path:         path,
		MIMEType:     strings.TrimSpace(fh.Header.Get("Content-Type")),
		OriginalName: fh.Filename,
		Size:         n,
	}
	logger.Debugf("upload staged %s -> %s (%d bytes)", fh.Filename, path, n)
	return staged, nil
}

// ReadAll 读取临时文件全部内容。
func (s *Staged) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read staged file: %w", err)
	}
	return data, nil
}

// Release 删除临时文件；只会尝试一次，重复调用返回第一次的结果。
func (s *Staged) Release() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		err := os.Remove(s.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.err = fmt.Errorf("remove staged file: %w", err)
			logger.Warnf("upload release failed: %v", s.err)
			return
		}
		logger.Debugf("upload released %s", s.Path)
	})
	return s.err
}

func sanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if len(out) > 100 {
		out = out[len(out)-100:]
	}
	return out
}
