/*
Package dsl provides a fluent builder for switchyard flow graphs.

Steps are registered with a factory and connected with ordered, optionally
conditional transitions. Consecutive steps are linked automatically when no explicit
transition joins them, so the simplest flow is just a list of steps.

Example usage:

	b := dsl.New()

	b.Add("project_details", newProjectDetails)
	b.Add("license", newLicense).
		Branch(func(s *domain.Store) bool {
			return domain.GetOr(s, keyLicense, "") == "custom"
		}, "license_custom")
	b.Add("license_custom", newLicenseCustom)
	b.Add("git", newGit)

	graph, err := b.Build()
	if err != nil {
		return err
	}
	next, ok := graph.NextStep("license", store)
*/
package dsl
