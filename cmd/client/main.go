package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/adrianliechti/libretto/pkg/client"
	"github.com/adrianliechti/libretto/pkg/document"
	"github.com/adrianliechti/libretto/pkg/table"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:8080", "server url")
	tokenFlag := flag.String("token", "", "server token")
	inputFlag := flag.String("input", ".", "folder containing the PDF files")
	outputFlag := flag.String("output", "", "write an Excel file instead of printing the rows")

	flag.Parse()

	ctx := context.Background()

	options := []client.RequestOption{}

	if *tokenFlag != "" {
		options = append(options, client.WithToken(*tokenFlag))
	}

	c := client.New(*urlFlag, options...)

	sources, err := document.Folder(*inputFlag)

	if err != nil {
		panic(err)
	}

	var files []client.File

	for _, s := range sources {
		f, err := os.Open(s.Path)

		if err != nil {
			panic(err)
		}

		defer f.Close()

		files = append(files, client.File{
			Name:   s.Name,
			Reader: f,
		})
	}

	request := client.ExtractionRequest{
		Files: files,
	}

	if *outputFlag != "" {
		out, err := os.Create(*outputFlag)

		if err != nil {
			panic(err)
		}

		defer out.Close()

		if err := c.Extractions.Download(ctx, request, out); err != nil {
			panic(err)
		}

		return
	}

	result, err := c.Extractions.New(ctx, request)

	if err != nil {
		panic(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	for i, column := range table.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}

		fmt.Fprint(w, column)
	}

	fmt.Fprintln(w)

	for _, r := range result.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Name, r.ShellThickness, r.ShellQuality, r.HeadThickness, r.HeadQuality, table.Presence)
	}

	w.Flush()
}
