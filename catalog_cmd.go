package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/designfolio/designfolio/internal/catalog"
	"github.com/designfolio/designfolio/internal/content"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the embedded project catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, optionally for one category",
	Long: `List projects in catalog order.

Examples:
  designfolio catalog list
  designfolio catalog list --category branding`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("category")

		site, err := content.Load()
		if err != nil {
			return err
		}

		items := site.Projects.Items()
		if key != "" {
			cat, err := catalog.ParseCategory(key)
			if err != nil {
				return err
			}
			items = catalog.Select(site.Projects, cat)
		}
		printItems(os.Stdout, items)
		return nil
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify slugs, adjacency and category coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := content.Load()
		if err != nil {
			return err
		}

		problems := checkCatalog(site.Projects)
		for _, cat := range catalog.Categories {
			fmt.Printf("%-22s %d\n", cat, len(catalog.Select(site.Projects, cat)))
		}
		if len(problems) == 0 {
			color.New(color.FgGreen).Printf("ok: %d projects\n", site.Projects.Len())
			return nil
		}
		for _, p := range problems {
			color.New(color.FgRed).Println(p)
		}
		return fmt.Errorf("%d catalog problem(s)", len(problems))
	},
}

func init() {
	catalogListCmd.Flags().String("category", "", "category label or key")
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
}

func printItems(w io.Writer, items []catalog.Item) {
	idColor := color.New(color.FgHiMagenta)
	catColor := color.New(color.FgCyan)
	for _, it := range items {
		fmt.Fprintf(w, "%s %-16s %s  /projects/%s\n",
			idColor.Sprintf("%3d", it.ID), it.Name, catColor.Sprint(it.Category), it.Slug())
	}
}

// checkCatalog reports slug collisions, broken adjacency rings and empty
// categories.
func checkCatalog(c *catalog.Catalog) []string {
	var problems []string
	items := c.Items()
	if len(items) == 0 {
		return []string{catalog.ErrEmptyCatalog.Error()}
	}

	seen := make(map[string]int)
	for _, it := range items {
		slug := it.Slug()
		if other, dup := seen[slug]; dup {
			problems = append(problems, fmt.Sprintf("slug %q shared by ids %d and %d", slug, other, it.ID))
			continue
		}
		seen[slug] = it.ID
		if len(it.Images) == 0 {
			problems = append(problems, fmt.Sprintf("id %d has no images", it.ID))
		}
	}

	id := items[0].ID
	for range items {
		adj, err := catalog.Adjacents(c, id)
		if err != nil {
			problems = append(problems, err.Error())
			break
		}
		id = adj.Next.ID
	}
	if id != items[0].ID {
		problems = append(problems, fmt.Sprintf("walking next %d times ended on id %d", len(items), id))
	}

	for _, cat := range catalog.Categories {
		if len(catalog.Select(c, cat)) == 0 {
			problems = append(problems, fmt.Sprintf("category %q has no projects", cat))
		}
	}
	return problems
}
