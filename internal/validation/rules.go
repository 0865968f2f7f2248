package validation

import "strings"

// ExtensionRule associates an accepted file extension with its MIME type
type ExtensionRule struct {
	Ext  string `mapstructure:"ext" json:"ext"`
	MIME string `mapstructure:"mime" json:"mime"`
}

// DefaultExtensions is the allow-list used when none is configured
var DefaultExtensions = []ExtensionRule{
	{Ext: "jpg", MIME: "image/jpeg"},
	{Ext: "jpeg", MIME: "image/jpeg"},
	{Ext: "png", MIME: "image/png"},
	{Ext: "gif", MIME: "image/gif"},
	{Ext: "svg", MIME: "application/xml"},
	{Ext: "pdf", MIME: "application/pdf"},
	{Ext: "doc", MIME: "application/msword"},
	{Ext: "docx", MIME: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	{Ext: "xls", MIME: "application/vnd.ms-excel"},
	{Ext: "xlsx", MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	{Ext: "ppt", MIME: "application/vnd.ms-powerpoint"},
	{Ext: "pptx", MIME: "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
}

// FileExtension returns the text after the last dot of fileName. It returns
// "" when there is no dot or nothing follows the final one.
func FileExtension(fileName string) string {
	i := strings.LastIndex(fileName, ".")
	if i < 0 {
		return ""
	}
	return fileName[i+1:]
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimSpace(ext))
}
