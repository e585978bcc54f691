package storage

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary configuration via environment variables:
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET,
// CLOUDINARY_FOLDER (optional).

var cld *cloudinary.Cloudinary

func InitializeImages() {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Println("Cloudinary env vars not set, image uploads disabled")
		return
	}

	c, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		log.Printf("[error] cloudinary init failed: %v", err)
		return
	}
	cld = c
}

// UploadBase64Image pushes a data-URI or raw base64 image to Cloudinary
// and returns the secure URL. Empty string on any failure; callers treat
// a missing URL as "upload skipped".
func UploadBase64Image(base64ImageSrc string, publicID string) string {
	if cld == nil || base64ImageSrc == "" {
		return ""
	}

	params := uploader.UploadParams{PublicID: publicID}
	if folder := os.Getenv("CLOUDINARY_FOLDER"); folder != "" {
		params.Folder = folder
	}

	resp, err := cld.Upload.Upload(context.Background(), base64ImageSrc, params)
	if err != nil {
		fmt.Printf("ERROR: cloudinary upload failed: %v\n", err)
		return ""
	}
	return resp.SecureURL
}

// DestroyImage removes an uploaded image by public ID. Best-effort.
func DestroyImage(publicID string) {
	if cld == nil || publicID == "" {
		return
	}
	_, err := cld.Upload.Destroy(context.Background(), uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		log.Printf("[warn] cloudinary destroy failed for %s: %v", publicID, err)
	}
}
