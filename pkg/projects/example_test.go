package projects_test

import (
	"fmt"

	"github.com/matzehuels/folio/pkg/integrations/github"
	"github.com/matzehuels/folio/pkg/projects"
)

func ExampleTransform() {
	repos := []github.Repo{
		{ID: 1, Name: "my-cool_repo", Language: "Go", Topics: []string{"cli", "tooling", "extra", "ignored"}, Stars: 12},
		{ID: 2, Name: "someone-elses", Fork: true, Stars: 40},
	}

	for _, p := range projects.Transform(repos, projects.Filter{ExcludeForks: true}) {
		fmt.Println(p.Title)
		fmt.Println(p.Description)
		fmt.Println(p.Tags)
	}
	// Output:
	// My Cool Repo
	// No description provided
	// [Go cli tooling extra]
}
