package domain

// Project keys shared by the wizard steps, the creation actions and the project record.
// The names double as mapstructure tags of ProjectRecord.
var (
	KeyProjectName     = NewKey[string]("project_name")
	KeyProjectLocation = NewKey[string]("project_location")
	KeyProjectDir      = NewKey[string]("project_dir")

	KeyGroupID    = NewKey[string]("group_id")
	KeyArtifactID = NewKey[string]("artifact_id")
	KeyVersion    = NewKey[string]("version")

	KeyMinecraftVersion = NewKey[VersionDescriptor]("minecraft_version")
	KeyMappingChannel   = NewKey[string]("mapping_channel")
	KeyMappingVersion   = NewKey[string]("mapping_version")

	// KeyLoaderVersion holds the NeoForge or Forge version.
	KeyLoaderVersion       = NewKey[string]("loader_version")
	KeyFabricLoaderVersion = NewKey[string]("fabric_loader_version")
	KeyFabricAPIVersion    = NewKey[string]("fabric_api_version")

	KeyModID     = NewKey[string]("mod_id")
	KeyModName   = NewKey[string]("mod_name")
	KeyMainClass = NewKey[string]("main_class")

	KeyLicense       = NewKey[string]("license")
	KeyLicenseCustom = NewKey[string]("license_custom")
	KeyInitGit       = NewKey[bool]("init_git")

	KeyUseAccessWidener  = NewKey[bool]("use_access_widener")
	KeyAccessWidenerPath = NewKey[string]("access_widener_path")
	KeySplitSources      = NewKey[bool]("split_sources")

	KeyAuthor      = NewKey[string]("author")
	KeyDescription = NewKey[string]("description")
	KeyIssuesURL   = NewKey[string]("issues_url")
	KeyHomepageURL = NewKey[string]("homepage_url")
	KeySourcesURL  = NewKey[string]("sources_url")

	// Written by the creation pipeline.
	KeyMdkVersion       = NewKey[VersionDescriptor]("mdk_version")
	KeyExampleModBranch = NewKey[string]("example_mod_branch")
)

// TransientSuffixes mark store entries that exist only to drive the wizard, such as
// choice option lists. They are never persisted.
var TransientSuffixes = []string{".options"}
