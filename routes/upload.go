package routes

import (
	"net/http"

	"github.com/kataras/iris/v12"

	"miami-getaway-server/storage"
)

type uploadInput struct {
	Data     string `json:"data"`      // base64 data URL or raw base64
	PublicID string `json:"public_id"` // optional
}

// POST /api/admin-apartments/upload
// Pushes a base64 image to Cloudinary and returns the hosted URL for
// the apartment form to attach.
func UploadImage(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid payload"})
		return
	}
	url := storage.UploadBase64Image(in.Data, in.PublicID)
	if url == "" {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "upload failed"})
		return
	}
	ctx.JSON(iris.Map{"url": url})
}
