package cloudinary

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anzel0/New-Bot/internal/domain"
)

type fakeUploader struct {
	params uploader.UploadParams
	file   interface{}
	res    *uploader.UploadResult
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.file = file
	f.params = params
	return f.res, f.err
}

func defaultSpec() domain.TransformSpec {
	return domain.TransformSpec{Steps: []domain.TransformStep{
		{{Key: domain.DirectiveQuality, Value: "auto:low"}, {Key: domain.DirectiveFetchFormat, Value: "auto"}},
		{{Key: domain.DirectiveHeight, Value: "360"}, {Key: domain.DirectiveCrop, Value: "scale"}},
	}}
}

func TestTransformation(t *testing.T) {
	assert.Equal(t, "q_auto:low,f_auto/h_360,c_scale", Transformation(defaultSpec()))
	assert.Empty(t, Transformation(domain.TransformSpec{}))

	withUnknown := domain.TransformSpec{Steps: []domain.TransformStep{
		{{Key: "rotate", Value: "90"}},
		{{Key: domain.DirectiveHeight, Value: "720"}},
	}}
	assert.Equal(t, "h_720", Transformation(withUnknown))
}

func TestCompressor_Transform(t *testing.T) {
	up := &fakeUploader{res: &uploader.UploadResult{SecureURL: "https://res.example.com/v.mp4"}}
	c := NewCompressorWithUploader(up, "bot")

	art, err := c.Transform(context.Background(), "/tmp/in.mp4", defaultSpec())
	require.NoError(t, err)
	assert.Equal(t, domain.Artifact{URL: "https://res.example.com/v.mp4"}, art)
	assert.True(t, art.IsRemote())

	assert.Equal(t, "/tmp/in.mp4", up.file)
	assert.Equal(t, "video", up.params.ResourceType)
	assert.Equal(t, "bot", up.params.Folder)
	assert.Equal(t, "q_auto:low,f_auto/h_360,c_scale", up.params.Transformation)
}

func TestCompressor_TransformFailures(t *testing.T) {
	apiErr := &uploader.UploadResult{}
	apiErr.Error.Message = "Invalid transformation"

	tests := []struct {
		name    string
		up      *fakeUploader
		wantMsg string
	}{
		{name: "transport", up: &fakeUploader{err: errors.New("connection reset")}, wantMsg: "connection reset"},
		{name: "nil result", up: &fakeUploader{}, wantMsg: "empty response"},
		{name: "api error", up: &fakeUploader{res: apiErr}, wantMsg: "Invalid transformation"},
		{name: "no url", up: &fakeUploader{res: &uploader.UploadResult{}}, wantMsg: "no secure url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := NewCompressorWithUploader(tt.up, "").Transform(context.Background(), "in.mp4", defaultSpec())
			assert.ErrorContains(t, err, tt.wantMsg)
			assert.True(t, art.IsZero())
		})
	}
}
