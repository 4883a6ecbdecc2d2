// Package objectclient talks to S3 compatible object storage.
package objectclient

import (
	"fmt"
	"path"
	"strings"
)

// ProjectKey is the object key a project file is exported under.
func ProjectKey(projectID, filePath string) string {
	return path.Join("projects", projectID, strings.TrimPrefix(filePath, "/"))
}

func PublicURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
