package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func tipCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Print the latest block",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			blk, err := s.bf.GetLatestBlock(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), blk)
		}),
	}
}

func blockCmd(opts *rootOptions) *cobra.Command {
	var txs bool
	cmd := &cobra.Command{
		Use:   "block <hash-or-height>",
		Short: "Print a block",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			if txs {
				hashes, err := s.bf.GetBlockTransactions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), hashes)
			}
			blk, err := s.bf.GetBlock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), blk)
		}),
	}
	cmd.Flags().BoolVar(&txs, "txs", false, "list the block's transactions instead")
	return cmd
}

func poolCmd(opts *rootOptions) *cobra.Command {
	var (
		metadata   bool
		history    bool
		delegators bool
	)
	cmd := &cobra.Command{
		Use:   "pool <pool-id>",
		Short: "Print a stake pool",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			ctx, id := cmd.Context(), args[0]
			var (
				v   any
				err error
			)
			switch {
			case metadata:
				v, err = s.bf.GetPoolMetadata(ctx, id)
			case history:
				v, err = s.bf.GetPoolHistory(ctx, id)
			case delegators:
				v, err = s.bf.GetPoolDelegators(ctx, id)
			default:
				v, err = s.bf.GetPool(ctx, id)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		}),
	}
	cmd.Flags().BoolVar(&metadata, "metadata", false, "print registration metadata")
	cmd.Flags().BoolVar(&history, "history", false, "print per-epoch history")
	cmd.Flags().BoolVar(&delegators, "delegators", false, "list delegators")
	cmd.MarkFlagsMutuallyExclusive("metadata", "history", "delegators")
	return cmd
}

func epochCmd(opts *rootOptions) *cobra.Command {
	var params bool
	cmd := &cobra.Command{
		Use:   "epoch [number]",
		Short: "Print an epoch, the current one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			ctx := cmd.Context()
			var number uint64
			if len(args) == 1 {
				n, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return err
				}
				number = n
			} else {
				latest, err := s.bf.GetLatestEpoch(ctx)
				if err != nil {
					return err
				}
				if !params {
					return printJSON(cmd.OutOrStdout(), latest)
				}
				number = latest.Number
			}

			if params {
				p, err := s.bf.GetEpochParameters(ctx, number)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			}
			e, err := s.bf.GetEpoch(ctx, number)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		}),
	}
	cmd.Flags().BoolVar(&params, "params", false, "print protocol parameters")
	return cmd
}

func networkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "supply",
		Short: "Print network supply and stake totals",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			info, err := s.bf.GetNetworkInfo(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		}),
	}
}
