package config

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"

	"github.com/spoke-d/filament/internal/fsys"
	"github.com/spoke-d/filament/internal/json"
)

// DatabaseConfig holds the connection parameters for the ledger database.
type DatabaseConfig struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Port     uint16 `json:"port"`
	Endpoint string `json:"endpoint"`
	DBName   string `json:"dbname"`
}

// ConnectionString renders the postgres data source name for lib/pq.
func (c DatabaseConfig) ConnectionString() string {
	var user *url.Userinfo
	if c.Password != "" {
		user = url.UserPassword(c.Username, c.Password)
	} else {
		user = url.User(c.Username)
	}
	u := url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   fmt.Sprintf("%s:%d", c.Endpoint, c.Port),
		Path:   c.DBName,
	}
	return u.String()
}

// DaemonConfig holds the address and pinned certificate of the repair
// daemon the client talks to.
type DaemonConfig struct {
	Host       string `json:"host"`
	Port       uint16 `json:"port"`
	ServerCert string `json:"server_cert"`
}

// Address renders the dialable daemon address.
func (c DaemonConfig) Address() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

// Settings is the whole configuration file. The ticketing fields are
// passed through to external collaborators; this module validates their
// pairing but never uses them itself.
type Settings struct {
	Database DatabaseConfig `json:"database"`
	Daemon   DaemonConfig   `json:"daemon"`

	JiraUser           string `json:"jira_user,omitempty"`
	JiraPassword       string `json:"jira_password,omitempty"`
	JiraHost           string `json:"jira_host,omitempty"`
	JiraIssueType      string `json:"jira_issue_type,omitempty"`
	JiraPriority       string `json:"jira_priority,omitempty"`
	JiraProjectID      string `json:"jira_project_id,omitempty"`
	JiraTicketAssignee string `json:"jira_ticket_assignee,omitempty"`
	Proxy              string `json:"proxy,omitempty"`
}

// Load reads and validates the settings found at path.
func Load(fileSystem fsys.FileSystem, path string) (Settings, error) {
	var settings Settings

	file, err := fileSystem.Open(path)
	if err != nil {
		return settings, errors.Wrapf(err, "failed to open config %q", path)
	}
	defer file.Close()

	if err := json.Read(file, &settings); err != nil {
		return settings, errors.Wrapf(err, "failed to parse config %q", path)
	}
	if err := settings.Validate(); err != nil {
		return settings, errors.WithStack(err)
	}
	return settings, nil
}

// Validate checks the settings for fields the core can not operate
// without.
func (s Settings) Validate() error {
	if s.Database.Username == "" {
		return errors.Errorf("database username is required")
	}
	if s.Database.Endpoint == "" {
		return errors.Errorf("database endpoint is required")
	}
	if s.Database.Port == 0 {
		return errors.Errorf("database port is required")
	}
	if s.Database.DBName == "" {
		return errors.Errorf("database name is required")
	}
	if s.JiraUser != "" && s.JiraHost == "" {
		return errors.Errorf("jira host is required when a jira user is set")
	}
	return nil
}
