/*
Package switchyard scaffolds Minecraft mod projects for NeoForge, Forge and Fabric.

A project is created in two phases. An interactive wizard walks a graph of form steps,
collecting the project name, Maven coordinates, Minecraft version, mappings, loader
versions and mod metadata while upstream version listings load in the background.
A sequential pipeline then downloads the matching template, verifies and extracts it,
pins the Gradle wrapper, rewrites gradle.properties and optionally initializes git.

# Layout

  - pkg/domain: the answer store, flow graph, pipeline action and record types.
  - pkg/ports: interfaces to the outside world (catalogs, transport, files, prompting, storage).
  - pkg/adapters: their implementations (HTTP, Maven and Mojang catalogs, zip, sqlite, redis, MCP).
  - internal/onboarding: the wizard steps and flows per project kind.
  - internal/creation: the pipeline actions.
  - internal/runtime: the wizard driver with its fetch pool, and the pipeline runner.

# Usage

	switchyard create neoforge
	switchyard create fabric --answers answers.yaml
	switchyard graph forge
	switchyard projects ls
*/
package switchyard
