package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rekindle/backend/internal/model"
	"github.com/rekindle/backend/internal/service"
)

var (
	queueAddContact string
	queueAddUseCase string
	queueAddType    string
	queueAddPurpose string
	queueAddMessage string

	queueListStatus  string
	queueListUseCase string
	queueListLimit   int
	queueListOffset  int
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the outreach queue",
}

var queueAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a draft outreach item for a contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			item, err := a.queue.Add(ctx, service.AddQueueRequest{
				ContactID:    queueAddContact,
				UseCase:      queueAddUseCase,
				OutreachType: queueAddType,
				Purpose:      queueAddPurpose,
				Message:      queueAddMessage,
			})
			if err != nil {
				return err
			}
			return printJSON(item)
		})
	},
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queue items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			items, total, err := a.queue.List(ctx, model.QueueListOptions{
				Status:  model.QueueStatus(queueListStatus),
				UseCase: queueListUseCase,
				Limit:   queueListLimit,
				Offset:  queueListOffset,
			})
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"items": items, "total": total})
		})
	},
}

var queueGetCmd = &cobra.Command{
	Use:   "get <item-id>",
	Short: "Show one queue item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			item, err := a.queue.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(item)
		})
	},
}

var queueStatusCmd = &cobra.Command{
	Use:   "status <item-id> <draft|approved|sent|responded>",
	Short: "Advance a queue item through the workflow",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			item, err := a.queue.UpdateStatus(ctx, args[0], model.QueueStatus(args[1]))
			if err != nil {
				return err
			}
			return printJSON(item)
		})
	},
}

var queueMessageCmd = &cobra.Command{
	Use:   "message <item-id> <text>",
	Short: "Rewrite a draft item's message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			item, err := a.queue.UpdateMessage(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(item)
		})
	},
}

var queueDeleteCmd = &cobra.Command{
	Use:   "delete <item-id>",
	Short: "Delete a draft or approved item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			if err := a.queue.Delete(ctx, args[0]); err != nil {
				return err
			}
			return printJSON(map[string]bool{"deleted": true})
		})
	},
}

var queueStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show queue counts by status and use case",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			stats, err := a.queue.Stats(ctx)
			if err != nil {
				return err
			}
			return printJSON(stats)
		})
	},
}

func init() {
	queueAddCmd.Flags().StringVar(&queueAddContact, "contact", "", "contact id (required)")
	queueAddCmd.Flags().StringVar(&queueAddUseCase, "use-case", "", "use case, e.g. mujertech, cascadia, job_search (required)")
	queueAddCmd.Flags().StringVar(&queueAddType, "type", "", "outreach type, e.g. resurrection, warm, cold (required)")
	queueAddCmd.Flags().StringVar(&queueAddPurpose, "purpose", "", "purpose, defaults to reconnect")
	queueAddCmd.Flags().StringVar(&queueAddMessage, "message", "", "draft message text")
	_ = queueAddCmd.MarkFlagRequired("contact")
	_ = queueAddCmd.MarkFlagRequired("use-case")
	_ = queueAddCmd.MarkFlagRequired("type")

	queueListCmd.Flags().StringVar(&queueListStatus, "status", "", "filter by status")
	queueListCmd.Flags().StringVar(&queueListUseCase, "use-case", "", "filter by use case")
	queueListCmd.Flags().IntVar(&queueListLimit, "limit", 50, "page size")
	queueListCmd.Flags().IntVar(&queueListOffset, "offset", 0, "page offset")

	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueGetCmd)
	queueCmd.AddCommand(queueStatusCmd)
	queueCmd.AddCommand(queueMessageCmd)
	queueCmd.AddCommand(queueDeleteCmd)
	queueCmd.AddCommand(queueStatsCmd)
}
