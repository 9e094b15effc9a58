package sync

import (
	"strings"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
)

// Route tells where a message from a given IMAP folder lands locally.
type Route struct {
	Folder string
	Status string
}

// folderTable maps provider folder names, including the common Gmail and
// Outlook variants, to a local folder and initial status. Lookups are
// case-insensitive.
var folderTable = map[string]Route{
	"inbox":             {models.FolderInbox, models.EmailStatusUnread},
	"sent":              {models.FolderSent, models.EmailStatusSent},
	"sent items":        {models.FolderSent, models.EmailStatusSent},
	"sent mail":         {models.FolderSent, models.EmailStatusSent},
	"[gmail]/sent mail": {models.FolderSent, models.EmailStatusSent},
	"drafts":            {models.FolderDrafts, models.EmailStatusDraft},
	"[gmail]/drafts":    {models.FolderDrafts, models.EmailStatusDraft},
	"trash":             {models.FolderTrash, models.EmailStatusRead},
	"deleted":           {models.FolderTrash, models.EmailStatusRead},
	"deleted items":     {models.FolderTrash, models.EmailStatusRead},
	"[gmail]/trash":     {models.FolderTrash, models.EmailStatusRead},
	"archive":           {models.FolderArchived, models.EmailStatusRead},
	"archived":          {models.FolderArchived, models.EmailStatusRead},
	"[gmail]/all mail":  {models.FolderArchived, models.EmailStatusRead},
	"spam":              {models.FolderTrash, models.EmailStatusRead},
	"junk":              {models.FolderTrash, models.EmailStatusRead},
	"junk email":        {models.FolderTrash, models.EmailStatusRead},
	"[gmail]/spam":      {models.FolderTrash, models.EmailStatusRead},
}

// RouteFor resolves an IMAP folder name to its local route.
func RouteFor(imapFolder string) (Route, bool) {
	r, ok := folderTable[strings.ToLower(imapFolder)]
	return r, ok
}

// fullSyncFolders is the candidate folder list tried on a full sync.
// Folders the server does not have are skipped.
var fullSyncFolders = []string{
	"INBOX",
	"Sent",
	"Sent Items",
	"[Gmail]/Sent Mail",
	"Drafts",
	"[Gmail]/Drafts",
	"Trash",
	"Deleted Items",
	"[Gmail]/Trash",
	"Archive",
	"[Gmail]/All Mail",
	"Spam",
	"Junk",
	"[Gmail]/Spam",
}
