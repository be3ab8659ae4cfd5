package model

// Workspace is a Toggl workspace the user belongs to.
type Workspace struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client is a Toggl client. Clients only reach time entries through projects.
type Client struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	WorkspaceID int64  `json:"wid"`
}

// Project is a Toggl project; ClientID is nil for projects without a client.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	WorkspaceID int64  `json:"workspace_id"`
	ClientID    *int64 `json:"client_id"`
	Active      bool   `json:"active"`
}

func (w Workspace) EntityID() int64    { return w.ID }
func (w Workspace) EntityName() string { return w.Name }

func (c Client) EntityID() int64    { return c.ID }
func (c Client) EntityName() string { return c.Name }

func (p Project) EntityID() int64    { return p.ID }
func (p Project) EntityName() string { return p.Name }

// Catalog bundles the user's workspaces, clients and projects.
type Catalog struct {
	Workspaces []Workspace
	Clients    []Client
	Projects   []Project
}
