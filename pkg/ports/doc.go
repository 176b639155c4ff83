/*
Package ports defines the driven ports (interfaces) of the switchyard engine.

These interfaces decouple the wizard and the creation pipeline from concrete
collaborators, allowing them to run against real network and disk adapters or
in-memory fakes.

# Key Interfaces

  - VersionCatalog, LoaderCatalog: game and loader version listings.
  - Transport, FileSystem, Archiver, Checksummer: collaborators of pipeline actions.
  - Prompter: the rendering layer driven by the wizard.
  - ProjectStore: persistence of created project records.
  - DistributedLocker: guards a project directory across processes.
*/
package ports
