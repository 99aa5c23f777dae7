package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUploadsUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{
			"asset_id":"a1","name":"cat","extension":"png",
			"domain":"files.example.com","size":8,"mimetype":"image/png"
		}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	up, err := client.Uploads().Upload(context.Background(), File{Name: "cat.png", Content: []byte("pngbytes")}, nil)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if up.ID != "a1" {
		t.Errorf("ID = %q, want a1", up.ID)
	}
	if up.Filename() != "cat.png" {
		t.Errorf("Filename = %q, want cat.png", up.Filename())
	}
	if up.PublicURL() != "https://files.example.com/cat.png" {
		t.Errorf("PublicURL = %q", up.PublicURL())
	}
}

func TestUploadsUpload_NoDomain(t *testing.T) {
	client := New("key", "")
	_, err := client.Uploads().Upload(context.Background(), File{Name: "x.txt", Content: []byte("x")}, nil)
	if !IsConfigurationError(err) {
		t.Fatalf("Expected configuration error without a domain, got %v", err)
	}
}

func TestUploadsUpload_PrivateAndDomainOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		var payload uploadPayload
		if err := json.Unmarshal([]byte(r.FormValue("payload_json")), &payload); err != nil {
			t.Fatalf("payload_json decode: %v", err)
		}
		if payload.Domain != "other.example.com" {
			t.Errorf("Domain = %q, want other.example.com", payload.Domain)
		}
		if payload.Type != UploadPrivate {
			t.Errorf("Type = %d, want private", payload.Type)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"asset_id":"a2","name":"x","extension":"txt"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	_, err := client.Uploads().Upload(context.Background(), File{Name: "x.txt", Content: []byte("x")}, &UploadOptions{
		Domain:  "other.example.com",
		Private: true,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
}

func TestUploadsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/@me/uploads" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"total":2,"results":2,"uploads":[
			{"asset_id":"a1","name":"one","extension":"png"},
			{"id":"a2","name":"two","extension":"jpg"}
		]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	list, err := client.Uploads().List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list.Total != 2 || len(list.Uploads) != 2 {
		t.Fatalf("Unexpected list: %+v", list)
	}
	// id and asset_id both resolve to ID
	if list.Uploads[0].ID != "a1" || list.Uploads[1].ID != "a2" {
		t.Errorf("IDs = %q, %q", list.Uploads[0].ID, list.Uploads[1].ID)
	}
}

func TestUploadsSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/@me/uploads/search" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req searchRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("Body decode: %v", err)
		}
		if req.Query != "cat" {
			t.Errorf("Query = %q", req.Query)
		}
		if req.Size == nil || req.Size.Min != 100 || req.Size.Max != 5000 {
			t.Errorf("Size range = %+v", req.Size)
		}
		if len(req.Extensions) != 1 || req.Extensions[0] != "png" {
			t.Errorf("Extensions = %v", req.Extensions)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[{"asset_id":"a1","name":"cat","extension":"png"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	results, err := client.Uploads().Search(context.Background(), "cat", &SearchOptions{
		Extensions: []string{"png"},
		MinSize:    100,
		MaxSize:    5000,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "a1" {
		t.Errorf("Unexpected results: %+v", results)
	}
}

func TestUploadsDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/users/@me/uploads/a1" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"message":"File deleted"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	resp, err := client.Uploads().Delete(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if resp.Message != "File deleted" {
		t.Errorf("Message = %q", resp.Message)
	}
}

func TestUploadsPermissions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"success":true,"data":[
				{"user":{"id":"u1","username":"jam"},"access_level":3},
				{"user":{"id":"u2","username":"pat"},"permission_level":1}
			]}`))
		case r.Method == http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			var req grantPermissionRequest
			if err := json.Unmarshal(body, &req); err != nil {
				t.Fatalf("Body decode: %v", err)
			}
			if req.User != "u3" || req.PermissionLevel != PermissionManager {
				t.Errorf("Grant request = %+v", req)
			}
			_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":"u3","username":"lee"},"access_level":2}}`))
		default:
			t.Errorf("Unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")

	perms, err := client.Uploads().Permissions(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Permissions failed: %v", err)
	}
	if len(perms) != 2 {
		t.Fatalf("Expected 2 permissions, got %d", len(perms))
	}
	// both access_level and permission_level variants decode into Level
	if perms[0].Level != PermissionOwner || perms[1].Level != PermissionViewer {
		t.Errorf("Levels = %v, %v", perms[0].Level, perms[1].Level)
	}

	granted, err := client.Uploads().GrantPermission(context.Background(), "a1", "u3", PermissionManager, "")
	if err != nil {
		t.Fatalf("GrantPermission failed: %v", err)
	}
	if granted.User.ID != "u3" || granted.Level != PermissionManager {
		t.Errorf("Granted = %+v", granted)
	}
}

func TestUploadsTotalSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/@me/uploads/size" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"user":123456789}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	size, err := client.Uploads().TotalSize(context.Background())
	if err != nil {
		t.Fatalf("TotalSize failed: %v", err)
	}
	if size.User != 123456789 {
		t.Errorf("User = %d", size.User)
	}
}
