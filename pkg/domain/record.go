package domain

import (
	"time"
)

// ProjectKind names the mod loader a project targets.
type ProjectKind string

const (
	ProjectNeoForge ProjectKind = "neoforge"
	ProjectForge    ProjectKind = "forge"
	ProjectFabric   ProjectKind = "fabric"
)

// ProjectKinds lists the supported kinds in display order.
var ProjectKinds = []ProjectKind{ProjectNeoForge, ProjectForge, ProjectFabric}

// ParseProjectKind validates a user supplied kind.
func ParseProjectKind(s string) (ProjectKind, bool) {
	for _, k := range ProjectKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ProjectRecord is the persisted summary of a created project.
type ProjectRecord struct {
	ID               string         `json:"id" yaml:"id" mapstructure:"id"`
	Kind             ProjectKind    `json:"kind" yaml:"kind" mapstructure:"kind"`
	Name             string         `json:"name" yaml:"name" mapstructure:"project_name"`
	Directory        string         `json:"directory" yaml:"directory" mapstructure:"project_dir"`
	Group            string         `json:"group" yaml:"group" mapstructure:"group_id"`
	ArtifactID       string         `json:"artifact_id" yaml:"artifact_id" mapstructure:"artifact_id"`
	ModID            string         `json:"mod_id" yaml:"mod_id" mapstructure:"mod_id"`
	MinecraftVersion string         `json:"minecraft_version" yaml:"minecraft_version" mapstructure:"minecraft_version"`
	LoaderVersion    string         `json:"loader_version" yaml:"loader_version" mapstructure:"loader_version"`
	MdkVersion       string         `json:"mdk_version,omitempty" yaml:"mdk_version,omitempty" mapstructure:"mdk_version"`
	License          string         `json:"license,omitempty" yaml:"license,omitempty" mapstructure:"license"`
	Status           RecordStatus   `json:"status" yaml:"status" mapstructure:"status"`
	FailedAction     string         `json:"failed_action,omitempty" yaml:"failed_action,omitempty" mapstructure:"failed_action"`
	CreatedAt        time.Time      `json:"created_at" yaml:"created_at" mapstructure:"-"`
	Answers          map[string]any `json:"answers,omitempty" yaml:"answers,omitempty" mapstructure:"-"`
}

// RecordStatus is the outcome of the creation pipeline.
type RecordStatus string

const (
	StatusCreated RecordStatus = "created"
	StatusFailed  RecordStatus = "failed"
)
