package model

import "time"

// FileTree is the full snapshot of a project's in-memory file system, keyed
// by file name. The shape mirrors what the browser runtime mounts directly:
//
//	{ "app.js": { "file": { "contents": "console.log('hi')" } } }
type FileTree map[string]FileEntry

type FileEntry struct {
	File FileContents `json:"file"`
}

type FileContents struct {
	Contents string `json:"contents"`
}

// Project is a collaborative workspace. Users holds the member set; the
// creator is always a member. FileTree is replaced wholesale on every save,
// the later of two concurrent writes wins.
type Project struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	CreatedBy int          `json:"created_by"`
	Users     []PublicUser `json:"users"`
	FileTree  FileTree     `json:"fileTree"`
	CreatedAt time.Time    `json:"created_at"`
}
