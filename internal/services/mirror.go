package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/studyhub/backend/internal/config"
	"github.com/studyhub/backend/internal/repository"
	"github.com/studyhub/backend/internal/storage"
)

// MirrorResult reports the outcome of an offsite mirror batch.
type MirrorResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Uploaded int      `json:"uploaded"`
	Errors   []string `json:"errors,omitempty"`
}

// MirrorService pushes stored files to an FTP server, preserving the
// canonical relative layout. It complements the reorganizer's
// copy-without-delete retention stance with an explicit offsite copy.
type MirrorService struct {
	catalog repository.ResourceCatalog
	store   storage.FileStore
	cfg     *config.Config
}

func NewMirrorService(catalog repository.ResourceCatalog, store storage.FileStore, cfg *config.Config) *MirrorService {
	return &MirrorService{catalog: catalog, store: store, cfg: cfg}
}

// Enabled reports whether an FTP mirror target is configured.
func (s *MirrorService) Enabled() bool {
	return s.cfg.MirrorEnabled && s.cfg.MirrorHost != ""
}

// MirrorAll uploads every public catalog entry's backing file to the FTP
// mirror. Per-entry failures are collected and do not stop the batch.
func (s *MirrorService) MirrorAll(ctx context.Context) MirrorResult {
	if !s.Enabled() {
		return MirrorResult{Success: false, Message: "FTP mirror is not configured"}
	}

	isPublic := true
	resources, err := s.catalog.FindMany(ctx, repository.ResourceFilter{IsPublic: &isPublic})
	if err != nil {
		return MirrorResult{Success: false, Message: fmt.Sprintf("Failed to load catalog: %v", err)}
	}

	conn, err := s.dial()
	if err != nil {
		return MirrorResult{Success: false, Message: err.Error()}
	}
	defer conn.Quit()

	errs := []string{}
	uploaded := 0
	madeDirs := map[string]bool{}

	for i := range resources {
		resource := &resources[i]

		if err := ctx.Err(); err != nil {
			return MirrorResult{
				Success:  false,
				Message:  fmt.Sprintf("Mirror cancelled after %d files: %v", uploaded, err),
				Uploaded: uploaded,
				Errors:   errs,
			}
		}

		data, err := s.store.Read(resource.FilePath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Failed to mirror %s: %v", resource.OriginalName, err))
			continue
		}

		remote := path.Join(s.cfg.MirrorPath, resource.FilePath)
		if err := ensureRemoteDir(conn, path.Dir(remote), madeDirs); err != nil {
			errs = append(errs, fmt.Sprintf("Failed to mirror %s: %v", resource.OriginalName, err))
			continue
		}

		if err := conn.Stor(remote, bytes.NewReader(data)); err != nil {
			errs = append(errs, fmt.Sprintf("Failed to mirror %s: %v", resource.OriginalName, err))
			continue
		}
		uploaded++
	}

	log.Printf("Mirror: uploaded %d/%d files to %s", uploaded, len(resources), s.cfg.MirrorHost)

	return MirrorResult{
		Success:  len(errs) == 0,
		Message:  fmt.Sprintf("Mirrored %d files successfully", uploaded),
		Uploaded: uploaded,
		Errors:   errs,
	}
}

func (s *MirrorService) dial() (*ftp.ServerConn, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.MirrorHost, s.cfg.MirrorPort)
	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("FTP connection failed: %v", err)
	}
	if err := conn.Login(s.cfg.MirrorUsername, s.cfg.MirrorPassword); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("FTP login failed: %v", err)
	}
	return conn, nil
}

// ensureRemoteDir creates a remote directory chain segment by segment.
// MakeDir on an existing directory fails on most servers, so each segment
// is attempted and only remembered in made once it is known to exist.
func ensureRemoteDir(conn *ftp.ServerConn, dir string, made map[string]bool) error {
	if dir == "" || dir == "/" || dir == "." || made[dir] {
		return nil
	}

	var current string
	for _, segment := range strings.Split(dir, "/") {
		if segment == "" {
			continue
		}
		current = path.Join(current, segment)
		if made[current] {
			continue
		}
		if err := conn.ChangeDir("/" + current); err != nil {
			conn.MakeDir("/" + current)
			if err := conn.ChangeDir("/" + current); err != nil {
				return fmt.Errorf("FTP directory %s unavailable: %v", current, err)
			}
		}
		made[current] = true
	}
	return conn.ChangeDir("/")
}
