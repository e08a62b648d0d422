// Package googledrive implements storage.Provider against the Google Drive
// v3 REST API.
package googledrive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudscan/dupescan/internal/errs"
	"github.com/cloudscan/dupescan/internal/model"
)

const baseURL = "https://www.googleapis.com/drive/v3"

// Provider talks to Google Drive on behalf of one access token. It is safe
// for concurrent use: the underlying http.Client is.
type Provider struct {
	token      string
	httpClient *http.Client
}

// New returns a Provider authenticated with the given OAuth access token.
func New(token string) *Provider {
	return &Provider{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         string `json:"size"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"`
	WebViewLink  string `json:"webViewLink"`
}

type listFilesResponse struct {
	NextPageToken string      `json:"nextPageToken"`
	Files         []driveFile `json:"files"`
}

const folderMimeType = "application/vnd.google-apps.folder"

// ListFiles implements storage.Provider.
func (p *Provider) ListFiles(ctx context.Context, folderIDs []string, recurse bool) ([]*model.File, error) {
	visited := make(map[string]bool)
	queue := append([]string{}, folderIDs...)

	var all []*model.File
	for len(queue) > 0 {
		folderID := queue[0]
		queue = queue[1:]
		if visited[folderID] {
			continue
		}
		visited[folderID] = true

		files, err := p.listFilesInFolder(ctx, folderID)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)

		if recurse {
			subfolders, err := p.listSubfolders(ctx, folderID)
			if err != nil {
				return nil, err
			}
			for _, sub := range subfolders {
				if !visited[sub] {
					queue = append(queue, sub)
				}
			}
		}
	}
	return all, nil
}

func (p *Provider) listFilesInFolder(ctx context.Context, folderID string) ([]*model.File, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false and mimeType!='%s'", folderID, folderMimeType)
	var out []*model.File
	pageToken := ""

	for {
		resp, err := p.listPage(ctx, query, "nextPageToken, files(id, name, size, mimeType, modifiedTime, webViewLink)", pageToken)
		if err != nil {
			return nil, err
		}
		for _, f := range resp.Files {
			if f.Size == "" {
				continue // Google Workspace virtual document with no byte stream
			}
			size, err := strconv.ParseInt(f.Size, 10, 64)
			if err != nil || size == 0 {
				continue
			}
			modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
			out = append(out, &model.File{
				ID:           f.ID,
				Name:         f.Name,
				Size:         size,
				MimeType:     f.MimeType,
				LastModified: modified,
				WebURL:       f.WebViewLink,
			})
		}
		if resp.NextPageToken == "" {
			return out, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (p *Provider) listSubfolders(ctx context.Context, folderID string) ([]string, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false and mimeType='%s'", folderID, folderMimeType)
	var out []string
	pageToken := ""

	for {
		resp, err := p.listPage(ctx, query, "nextPageToken, files(id, name)", pageToken)
		if err != nil {
			return nil, err
		}
		for _, f := range resp.Files {
			out = append(out, f.ID)
		}
		if resp.NextPageToken == "" {
			return out, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (p *Provider) listPage(ctx context.Context, query, fields, pageToken string) (*listFilesResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", fields)
	params.Set("pageSize", "1000")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	body, err := p.do(ctx, http.MethodGet, "/files?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var resp listFilesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errs.Provider("list_files: decode response", err)
	}
	return &resp, nil
}

// Fetch implements storage.Provider.
func (p *Provider) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	return p.do(ctx, http.MethodGet, "/files/"+fileID+"?alt=media", nil)
}

// Delete implements storage.Provider. permanent=false trashes the file;
// permanent=true issues an irrecoverable delete.
func (p *Provider) Delete(ctx context.Context, fileID string, permanent bool) error {
	if permanent {
		_, err := p.do(ctx, http.MethodDelete, "/files/"+fileID, nil)
		return err
	}
	body, err := json.Marshal(map[string]bool{"trashed": true})
	if err != nil {
		return err
	}
	_, err = p.do(ctx, http.MethodPatch, "/files/"+fileID, body)
	return err
}

func (p *Provider) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
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
		return nil, errs.AuthExpired(fmt.Errorf("google drive rejected the access token"))
	}
	if resp.StatusCode >= 400 {
		return nil, errs.Provider(fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode), fmt.Errorf("%s", string(respBody)))
	}
	return respBody, nil
}
