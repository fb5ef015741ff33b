package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/Anzel0/New-Bot/internal/domain"
)

var directiveParams = map[string]string{
	domain.DirectiveQuality:     "q",
	domain.DirectiveFetchFormat: "f",
	domain.DirectiveHeight:      "h",
	domain.DirectiveCrop:        "c",
}

// Uploader is the part of the Cloudinary upload API the compressor needs.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// Compressor uploads a video to Cloudinary with an incoming transformation and
// returns the URL of the compressed result.
type Compressor struct {
	upload Uploader
	folder string
}

// NewCompressor creates a compressor from account credentials
func NewCompressor(cloudName, apiKey, apiSecret, folder string) (*Compressor, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return NewCompressorWithUploader(&cld.Upload, folder), nil
}

// NewCompressorWithUploader creates a compressor around an existing uploader.
func NewCompressorWithUploader(u Uploader, folder string) *Compressor {
	return &Compressor{upload: u, folder: folder}
}

// Transform uploads videoPath and returns the remote compressed artifact.
func (c *Compressor) Transform(ctx context.Context, videoPath string, spec domain.TransformSpec) (domain.Artifact, error) {
	res, err := c.upload.Upload(ctx, videoPath, uploader.UploadParams{
		ResourceType:   "video",
		Transformation: Transformation(spec),
		Folder:         c.folder,
	})
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return domain.Artifact{}, errors.New("cloudinary upload: empty response")
	}
	if res.Error.Message != "" {
		return domain.Artifact{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return domain.Artifact{}, errors.New("cloudinary upload: no secure url returned")
	}
	return domain.Artifact{URL: res.SecureURL}, nil
}

// Transformation renders a spec in Cloudinary URL syntax, e.g.
// "q_auto:low,f_auto/h_360,c_scale". Unknown directives are skipped.
func Transformation(spec domain.TransformSpec) string {
	steps := make([]string, 0, len(spec.Steps))
	for _, step := range spec.Steps {
		parts := make([]string, 0, len(step))
		for _, d := range step {
			if p, ok := directiveParams[d.Key]; ok {
				parts = append(parts, p+"_"+d.Value)
			}
		}
		if len(parts) > 0 {
			steps = append(steps, strings.Join(parts, ","))
		}
	}
	return strings.Join(steps, "/")
}
