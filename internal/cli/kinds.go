package cli

import (
	"fmt"

	"github.com/goliatone/go-docrender/document"
	"github.com/goliatone/go-docrender/query"
	"github.com/spf13/cobra"
)

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the document kinds the renderer knows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := document.NewService(document.ServiceConfig{})
			kinds, err := query.NewListKindsHandler(svc).Query(cmd.Context(), query.ListKinds{})
			if err != nil {
				return err
			}
			for _, kind := range kinds {
				fmt.Fprintln(a.stdout, kind)
			}
			return nil
		},
	}
}
