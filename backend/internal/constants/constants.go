package constants

// Relation file constants
const (
	// FieldDelimiter separates columns in the relation and distribution files
	FieldDelimiter = ","

	// RelationFieldCount is the minimum number of columns a relation row must carry
	RelationFieldCount = 4

	// CompoundSeparator joins a coarse and a fine label in the fine distribution file ("家庭/母亲")
	CompoundSeparator = "/"
)

// RelationHeader is the fixed header row written at the top of the relation file
var RelationHeader = []string{"人物1", "小类关系", "大类关系", "人物2"}

// Pagination constants
const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// Image upload constants
const (
	// UploadFormField is the multipart field carrying the portrait
	UploadFormField = "image"

	// UploadTimestampLayout is embedded in synthesized image filenames
	UploadTimestampLayout = "20060102150405"
)

// AllowedImageExtensions maps accepted portrait extensions (lowercase, no dot)
// to the content type an upload with that extension must have
var AllowedImageExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Resource names used in not-found errors
const (
	ResourceRelation = "relation"
	ResourcePerson   = "person"
	ResourceImage    = "image"
)
