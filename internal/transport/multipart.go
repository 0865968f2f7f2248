package transport

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"fileupload/internal/file"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"", "\r", "%0D", "\n", "%0A")

// partHeader builds the header of the part carrying f. The form field is
// keyed by the file name.
func partHeader(f file.Descriptor) textproto.MIMEHeader {
	name := quoteEscaper.Replace(f.Name())
	contentType := f.ContentType()
	if contentType == "" {
		contentType = file.DefaultContentType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, name, name))
	h.Set("Content-Type", contentType)
	return h
}

// countingWriter counts bytes written to it
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// multipartBody is a streamed multipart/form-data request body
type multipartBody struct {
	files    []file.Descriptor
	boundary string
	length   int64
}

func newMultipartBody(files []file.Descriptor) *multipartBody {
	b := &multipartBody{
		files:    files,
		boundary: multipart.NewWriter(io.Discard).Boundary(),
	}
	b.length = b.contentLength()
	return b
}

// ContentType returns the request Content-Type including the boundary
func (b *multipartBody) ContentType() string {
	return "multipart/form-data; boundary=" + b.boundary
}

// contentLength computes the encoded size by writing the part framing to a
// counter and adding the file sizes. It returns -1 if any size is unknown.
func (b *multipartBody) contentLength() int64 {
	cw := &countingWriter{}
	mw := multipart.NewWriter(cw)
	if err := mw.SetBoundary(b.boundary); err != nil {
		return -1
	}

	var content int64
	for _, f := range b.files {
		if f.Size() < 0 {
			return -1
		}
		if _, err := mw.CreatePart(partHeader(f)); err != nil {
			return -1
		}
		content += f.Size()
	}
	if err := mw.Close(); err != nil {
		return -1
	}

	return cw.n + content
}

// Reader starts encoding into a pipe and returns its read side. Closing the
// reader stops the encoder.
func (b *multipartBody) Reader() io.ReadCloser {
	pr, pw := io.Pipe()

	go func() {
		pw.CloseWithError(b.write(pw))
	}()

	return pr
}

func (b *multipartBody) write(w io.Writer) error {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(b.boundary); err != nil {
		return err
	}

	for _, f := range b.files {
		if err := writePart(mw, f); err != nil {
			return err
		}
	}

	return mw.Close()
}

func writePart(mw *multipart.Writer, f file.Descriptor) error {
	part, err := mw.CreatePart(partHeader(f))
	if err != nil {
		return fmt.Errorf("failed to create part for %s: %w", f.Name(), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name(), err)
	}
	defer rc.Close()

	n, err := io.Copy(part, rc)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name(), err)
	}
	if size := f.Size(); size >= 0 && n != size {
		return fmt.Errorf("%s changed size during upload: expected %d bytes, read %d", f.Name(), size, n)
	}

	return nil
}
