package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"daoview/internal/domain"
	"daoview/internal/stacks"
)

// withApp opens the app for the duration of run
func withApp(cmd *cobra.Command, run func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return run(ctx, a)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func daosCmd() *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "daos",
		Short: "List known DAOs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				network := a.svc.DefaultNetwork()
				if export != "" {
					return a.svc.ExportDaos(ctx, export, network, os.Stdout)
				}

				daos, err := a.svc.ListKnownDaos(ctx, network)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tCONTRACT\tNETWORK\tADAPTER\tSOURCE")
				for _, d := range daos {
					adapterType := d.AdapterType
					if adapterType == "" {
						adapterType = "-"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.ContractAddress, d.NetworkOr(network), adapterType, d.Source)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "write the list as json or yaml instead of a table")
	return cmd
}

func treasuryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "treasury <contract-address>",
		Short: "Show the treasury of a DAO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				treasury, err := a.svc.GetDaoTreasury(ctx, args[0], "")
				if err != nil {
					return err
				}
				if treasury == nil {
					return fmt.Errorf("treasury of %s is not available", args[0])
				}
				return printJSON(treasury)
			})
		},
	}
}

func proposalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proposals <contract-address>",
		Short: "List the proposals of a DAO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				proposals, err := a.svc.GetDaoProposals(ctx, args[0], "")
				if err != nil {
					return err
				}
				return printJSON(proposals)
			})
		},
	}
}

func proposalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proposal <contract-address> <id>",
		Short: "Show one proposal of a DAO",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				details, err := a.svc.GetProposalDetails(ctx, args[1], args[0], "")
				if err != nil {
					return err
				}
				if details == nil {
					return fmt.Errorf("proposal %s of %s is not available", args[1], args[0])
				}
				return printJSON(details)
			})
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <contract-address>",
		Short: "Check that a contract can be read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result := a.svc.ValidateDaoContract(ctx, args[0], "")
				if err := printJSON(result); err != nil {
					return err
				}
				if !result.IsValid {
					return fmt.Errorf("%s: %s", args[0], result.Error)
				}
				return nil
			})
		},
	}
}

func addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <public-key-hex>",
		Short: "Derive the principal of a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network := domain.ParseNetwork(cfg.Network.Default)
			address, err := stacks.AddressFromPublicKey(args[0], network)
			if err != nil {
				return err
			}
			fmt.Println(address)
			return nil
		},
	}
}
