package generate

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"testing"

	"gemapi/internal/gateway/provider"
	"gemapi/internal/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, model, prompt string, parts []provider.Part) (string, error) {
	args := m.Called(ctx, model, prompt, parts)
	return args.String(0), args.Error(1)
}

func newTestService(t *testing.T, gen provider.Generator) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	stager, err := upload.NewStager(dir)
	require.NoError(t, err)
	svc, err := NewService(gen, stager, Options{Model: "gemini-test"})
	require.NoError(t, err)
	return svc, dir
}

func formFile(t *testing.T, field, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := map[string][]string{
		"Content-Disposition": {`form-data; name="` + field + `"; filename="` + name + `"`},
	}
	if contentType != "" {
		h["Content-Type"] = []string{contentType}
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTextRequiresPrompt(t *testing.T) {
	gen := new(MockGenerator)
	svc, _ := newTestService(t, gen)

	_, err := svc.Text(context.Background(), "   ")
	gerr := Classify(err)
	assert.Equal(t, KindClientInput, gerr.Kind)
	assert.Equal(t, http.StatusBadRequest, gerr.Status)
	assert.Equal(t, "Prompt is required", gerr.Message)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTextCallsGeneratorWithoutParts(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, "gemini-test", "write a haiku", []provider.Part(nil)).Return("an old pond", nil)
	svc, _ := newTestService(t, gen)

	out, err := svc.Text(context.Background(), "write a haiku")
	require.NoError(t, err)
	assert.Equal(t, "an old pond", out)
	gen.AssertExpectations(t)
}

func TestImageDefaultsPromptAndReleases(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, "gemini-test", "Describe this image",
		[]provider.Part{{Data: []byte("img"), MIMEType: "image/jpeg"}}).Return("a dog", nil)
	svc, dir := newTestService(t, gen)

	out, err := svc.Image(context.Background(), ImageRequest{File: formFile(t, "image", "dog.jpg", "image/jpeg", []byte("img"))})
	require.NoError(t, err)
	assert.Equal(t, "a dog", out)
	gen.AssertExpectations(t)
	assertDirEmpty(t, dir)
}

func TestImageReleasesOnProviderError(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, "what is it?", mock.Anything).
		Return("", provider.NewError(http.StatusTooManyRequests, "quota", map[string]any{"status": "RESOURCE_EXHAUSTED"}))
	svc, dir := newTestService(t, gen)

	_, err := svc.Image(context.Background(), ImageRequest{
		Prompt: "what is it?",
		File:   formFile(t, "image", "x.png", "image/png", []byte("png")),
	})
	gerr := Classify(err)
	assert.Equal(t, KindProvider, gerr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, gerr.Status)
	assert.Equal(t, "Too Many Requests", gerr.Message)
	assert.Equal(t, map[string]any{"status": "RESOURCE_EXHAUSTED"}, gerr.Details)
	assertDirEmpty(t, dir)
}

func TestImageRequiresFile(t *testing.T) {
	gen := new(MockGenerator)
	svc, _ := newTestService(t, gen)

	_, err := svc.Image(context.Background(), ImageRequest{Prompt: "hi"})
	assert.Equal(t, http.StatusBadRequest, Classify(err).Status)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImageSniffsMissingMIMEType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything,
		[]provider.Part{{Data: png, MIMEType: "image/png"}}).Return("ok", nil)
	svc, _ := newTestService(t, gen)

	_, err := svc.Image(context.Background(), ImageRequest{File: formFile(t, "image", "blob", "application/octet-stream", png)})
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestAudioVideoAdvisory(t *testing.T) {
	gen := new(MockGenerator)
	svc, dir := newTestService(t, gen)

	adv, err := svc.Audio(context.Background(), formFile(t, "audio", "talk.mp3", "audio/mpeg", []byte("mp3")))
	require.NoError(t, err)
	assert.Equal(t, AudioAdvisory, adv.Message)
	assert.Equal(t, "talk.mp3", adv.File)

	adv, err = svc.Video(context.Background(), formFile(t, "video", "clip.mp4", "video/mp4", []byte("mp4")))
	require.NoError(t, err)
	assert.Equal(t, VideoAdvisory, adv.Message)
	assert.Equal(t, "clip.mp4", adv.File)

	_, err = svc.Video(context.Background(), nil)
	assert.Equal(t, "Video file is required", Classify(err).Message)

	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assertDirEmpty(t, dir)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	gerr := Classify(errors.New("disk full"))
	assert.Equal(t, KindInternal, gerr.Kind)
	assert.Equal(t, http.StatusInternalServerError, gerr.Status)
	assert.Equal(t, "disk full", gerr.Message)

	wrapped := Classify(errors.Join(errors.New("ctx"), provider.NewError(http.StatusForbidden, "denied", nil)))
	assert.Equal(t, KindProvider, wrapped.Kind)
	assert.Equal(t, "Forbidden", wrapped.Message)

	same := clientInput("x")
	assert.Same(t, same, Classify(same))
}

func TestImageStagingFailure(t *testing.T) {
	gen := new(MockGenerator)
	svc, dir := newTestService(t, gen)
	require.NoError(t, os.RemoveAll(dir))

	_, err := svc.Image(context.Background(), ImageRequest{File: formFile(t, "image", "a.png", "image/png", []byte("x"))})
	gerr := Classify(err)
	assert.Equal(t, KindInternal, gerr.Kind)
	assert.Equal(t, http.StatusInternalServerError, gerr.Status)
	assert.Equal(t, "Failed to stage upload", gerr.Message)
	assert.NotContains(t, gerr.Message, dir)

	_, err = svc.Audio(context.Background(), formFile(t, "audio", "a.mp3", "audio/mpeg", []byte("x")))
	assert.Equal(t, KindInternal, Classify(err).Kind)

	gen.AssertNumberOfCalls(t, "Generate", 0)
}

func TestImageReadFailureReleasesUpload(t *testing.T) {
	gen := new(MockGenerator)
	svc, dir := newTestService(t, gen)
	var stagedPath string
	svc.readStaged = func(st *upload.Staged) ([]byte, error) {
		stagedPath = st.Path
		return nil, errors.New("read " + st.Path + ": input/output error")
	}

	_, err := svc.Image(context.Background(), ImageRequest{File: formFile(t, "image", "a.png", "image/png", []byte("x"))})
	gerr := Classify(err)
	assert.Equal(t, KindInternal, gerr.Kind)
	assert.Equal(t, http.StatusInternalServerError, gerr.Status)
	assert.Equal(t, "Failed to read upload", gerr.Message)
	assert.ErrorContains(t, gerr, "input/output error")
	require.NotEmpty(t, stagedPath)
	assertDirEmpty(t, dir)
	gen.AssertNumberOfCalls(t, "Generate", 0)
}
