package schema

const (
	FieldTypeString  = "String"
	FieldTypeInteger = "Integer"
	FieldTypeBool    = "Bool"
)

const (
	KeyNextcloudURL        = "nextcloud_url"
	KeyNextcloudUser       = "nextcloud_user"
	KeyNextcloudPassword   = "nextcloud_password"
	KeyFolderColumn        = "folder_column"
	KeyMaxFiles            = "max_files"
	KeyAllowedRoles        = "allowed_roles"
	KeyEnableNotifications = "enable_notifications"
	KeyFileTags            = "file_tags"
)

type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Secret   bool   `json:"secret,omitempty"`
}

type Step struct {
	Name string   `json:"name"`
	Form []*Field `json:"form"`
}

type Workflow struct {
	Steps []*Step `json:"steps"`
}

// ConfigurationWorkflow describes the settings form rendered by the host.
func ConfigurationWorkflow() *Workflow {
	return &Workflow{
		Steps: []*Step{
			{
				Name: "Nextcloud settings",
				Form: []*Field{
					{Name: KeyNextcloudURL, Label: "Nextcloud URL", Type: FieldTypeString, Required: true},
					{Name: KeyNextcloudUser, Label: "Nextcloud username", Type: FieldTypeString, Required: true},
					{Name: KeyNextcloudPassword, Label: "Nextcloud password", Type: FieldTypeString, Required: true, Secret: true},
					{Name: KeyFolderColumn, Label: "Folder name column", Type: FieldTypeString, Required: true},
					{Name: KeyMaxFiles, Label: "Maximum files per folder", Type: FieldTypeInteger},
					{Name: KeyAllowedRoles, Label: "Roles with access", Type: FieldTypeString},
					{Name: KeyEnableNotifications, Label: "Notify about new folders", Type: FieldTypeBool},
					{Name: KeyFileTags, Label: "File tagging", Type: FieldTypeBool},
				},
			},
		},
	}
}

func RequiredKeys() []string {
	rs := make([]string, 0, 4)
	for _, step := range ConfigurationWorkflow().Steps {
		for _, f := range step.Form {
			if f.Required {
				rs = append(rs, f.Name)
			}
		}
	}
	return rs
}
