package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Skotchmaster/portfolio/internal/events"
	"github.com/Skotchmaster/portfolio/internal/media"
)

const UploadURLPrefix = "/uploads/"

type MediaService struct {
	Store  media.Store
	Events events.Publisher
}

type Upload struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Upload stores r under a fresh name. The content type comes from the
// extension of original; the one sent by the client is ignored.
func (s *MediaService) Upload(ctx context.Context, original string, r io.Reader, size int64) (*Upload, error) {
	contentType, err := media.ContentType(original)
	if err != nil {
		return nil, fmt.Errorf("%w: file type is not allowed", ErrValidation)
	}
	name := media.NewName(original)
	if err := s.Store.Put(ctx, name, r, size, contentType); err != nil {
		return nil, err
	}
	up := &Upload{Name: name, URL: UploadURLPrefix + name}
	publish(ctx, s.Events, events.Event{Type: events.MediaUploaded, Subject: name, Data: up})
	return up, nil
}

func (s *MediaService) Open(ctx context.Context, name string) (*media.Object, error) {
	if err := media.ValidName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	obj, err := s.Store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return obj, nil
}

// Delete removes the named upload and reports whether it existed.
func (s *MediaService) Delete(ctx context.Context, name string) (bool, error) {
	if err := media.ValidName(name); err != nil {
		return false, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.Store.Delete(ctx, name); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	publish(ctx, s.Events, events.Event{Type: events.MediaDeleted, Subject: name})
	return true, nil
}
