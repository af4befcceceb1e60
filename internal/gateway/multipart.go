package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// File is an optional attachment of a multipart request.
type File struct {
	Name    string
	Content io.Reader
}

// form builds a multipart body, skipping fields that carry no value.
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) str(key, value string) {
	if f.err != nil || value == "" {
		return
	}
	f.err = f.w.WriteField(key, value)
}

// set writes the field even when value is empty, so a cleared input reaches
// the backend.
func (f *form) set(key, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(key, value)
}

func (f *form) id(key string, value int64) {
	if value == 0 {
		return
	}
	f.str(key, strconv.FormatInt(value, 10))
}

func (f *form) optID(key string, value *int64) {
	if value == nil {
		return
	}
	f.str(key, strconv.FormatInt(*value, 10))
}

func (f *form) amount(key string, value *float64) {
	if value == nil {
		return
	}
	f.str(key, strconv.FormatFloat(*value, 'f', -1, 64))
}

func (f *form) file(key string, file *File) {
	if f.err != nil || file == nil || file.Content == nil {
		return
	}
	part, err := f.w.CreateFormFile(key, file.Name)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = io.Copy(part, file.Content)
}

func (f *form) request(method, path string) (request, error) {
	if f.err != nil {
		return request{}, fmt.Errorf("failed to build form: %w", f.err)
	}
	if err := f.w.Close(); err != nil {
		return request{}, fmt.Errorf("failed to build form: %w", err)
	}
	return request{
		method:      method,
		path:        path,
		body:        &f.buf,
		contentType: f.w.FormDataContentType(),
	}, nil
}
