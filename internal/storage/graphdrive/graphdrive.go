// Package graphdrive implements storage.Provider against the Microsoft
// Graph API (OneDrive). It is an alternate implementation of the same
// storage.Provider interface as googledrive — redundant by design, kept to
// demonstrate the interface is backend-agnostic.
package graphdrive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudscan/dupescan/internal/errs"
	"github.com/cloudscan/dupescan/internal/model"
)

const baseURL = "https://graph.microsoft.com/v1.0"

// Provider talks to a single user's default OneDrive. driveID is resolved
// lazily on first call since the Graph API requires a preliminary
// "/me/drive" lookup to learn it.
type Provider struct {
	token      string
	httpClient *http.Client
	driveID    string
}

// New returns a Provider authenticated with the given OAuth access token.
func New(token string) *Provider {
	return &Provider{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type driveItem struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	LastModifiedTime   string `json:"lastModifiedDateTime"`
	WebURL             string `json:"webUrl"`
	File               *struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`
	Folder *struct{} `json:"folder"`
}

type childrenResponse struct {
	Value    []driveItem `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

// ListFiles implements storage.Provider. folderIDs are Graph item IDs
// within the user's default drive; "root" (or empty) means the drive root.
func (p *Provider) ListFiles(ctx context.Context, folderIDs []string, recurse bool) ([]*model.File, error) {
	if err := p.ensureDriveID(ctx); err != nil {
		return nil, err
	}

	roots := folderIDs
	if len(roots) == 0 {
		roots = []string{"root"}
	}

	visited := make(map[string]bool)
	queue := append([]string{}, roots...)

	var all []*model.File
	for len(queue) > 0 {
		folderID := queue[0]
		queue = queue[1:]
		if visited[folderID] {
			continue
		}
		visited[folderID] = true

		files, subfolders, err := p.listChildren(ctx, folderID)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)

		if recurse {
			for _, sub := range subfolders {
				if !visited[sub] {
					queue = append(queue, sub)
				}
			}
		}
	}
	return all, nil
}

func (p *Provider) listChildren(ctx context.Context, folderID string) ([]*model.File, []string, error) {
	endpoint := p.childrenEndpoint(folderID)

	var files []*model.File
	var subfolders []string

	for endpoint != "" {
		body, err := p.do(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, nil, err
		}
		var resp childrenResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, nil, errs.Provider("list_children: decode response", err)
		}

		for _, item := range resp.Value {
			switch {
			case item.File != nil:
				if item.Size == 0 {
					continue
				}
				modified, _ := time.Parse(time.RFC3339, item.LastModifiedTime)
				files = append(files, &model.File{
					ID:           item.ID,
					Name:         item.Name,
					Size:         item.Size,
					MimeType:     item.File.MimeType,
					LastModified: modified,
					WebURL:       item.WebURL,
				})
			case item.Folder != nil:
				subfolders = append(subfolders, item.ID)
			}
		}

		if resp.NextLink == "" {
			break
		}
		endpoint = strings.TrimPrefix(resp.NextLink, baseURL)
	}
	return files, subfolders, nil
}

func (p *Provider) childrenEndpoint(folderID string) string {
	if folderID == "" || folderID == "root" {
		return fmt.Sprintf("/drives/%s/root/children", p.driveID)
	}
	return fmt.Sprintf("/drives/%s/items/%s/children", p.driveID, folderID)
}

func (p *Provider) ensureDriveID(ctx context.Context) error {
	if p.driveID != "" {
		return nil
	}
	body, err := p.do(ctx, http.MethodGet, "/me/drive", nil)
	if err != nil {
		return err
	}
	var drive struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &drive); err != nil {
		return errs.Provider("get_user_drive: decode response", err)
	}
	p.driveID = drive.ID
	return nil
}

// Fetch implements storage.Provider.
func (p *Provider) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	if err := p.ensureDriveID(ctx); err != nil {
		return nil, err
	}
	return p.do(ctx, http.MethodGet, fmt.Sprintf("/drives/%s/items/%s/content", p.driveID, fileID), nil)
}

// Delete implements storage.Provider. Graph has no distinct soft-delete
// endpoint for drive items; both soft and permanent deletes issue the same
// DELETE call, which moves the item to the recycle bin (reversible by the
// user through the web UI) — permanent deletion from the bin itself is
// outside this API's surface.
func (p *Provider) Delete(ctx context.Context, fileID string, permanent bool) error {
	if err := p.ensureDriveID(ctx); err != nil {
		return err
	}
	_, err := p.do(ctx, http.MethodDelete, fmt.Sprintf("/drives/%s/items/%s", p.driveID, fileID), nil)
	return err
}

func (p *Provider) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := path
	if !strings.HasPrefix(path, "http") {
		url = baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errs.Provider(method+" "+path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Provider(method+" "+path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errs.AuthExpired(fmt.Errorf("microsoft graph rejected the access token"))
	}
	if resp.StatusCode >= 400 {
		return nil, errs.Provider(fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode), fmt.Errorf("%s", string(respBody)))
	}
	return respBody, nil
}
