package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	storage "github.com/supabase-community/storage-go"
)

const avatarBucket = "avatars"

// UploadAvatar stores a user-submitted image in the Supabase "avatars"
// bucket and returns its public URL.
func UploadAvatar(fh *multipart.FileHeader, fileID string) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")

	storageClient := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	objectPath := fmt.Sprintf("%s%s", fileID, filepath.Ext(fh.Filename))

	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := storageClient.UploadFile(avatarBucket, objectPath, f, options); err != nil {
		return "", err
	}

	publicURL := storageClient.GetPublicUrl(avatarBucket, objectPath)
	return publicURL.SignedURL, nil
}
