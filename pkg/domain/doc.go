/*
Package domain contains the core models of the switchyard wizard engine.

It defines the navigation graph the wizard walks, the typed store both the wizard
and the creation pipeline share, and the contracts implemented by wizard steps and
pipeline actions. This package is kept pure and free of I/O; concrete collaborators
live behind the interfaces in pkg/ports.

# Key Entities

  - Store: ordered key/value bag addressed through typed Keys.
  - FlowGraph: immutable set of step factories and ordered, optionally conditional
    transitions. The first eligible transition wins.
  - WizardStep: an interactive screen with enter and exit hooks.
  - PipelineAction: a non-interactive unit of project creation.
  - VersionDescriptor: one entry of the game version catalog.
*/
package domain
