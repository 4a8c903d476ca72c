package commands

import (
	"context"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/spamchannel"
	"github.com/strawberry-py/strawberry-go/pkg/text"
)

// HelpCommand lists the commands the invoker may run.
type HelpCommand struct {
	catalog *Catalog
	acl     *acl.Service
}

// NewHelpCommand creates a new HelpCommand instance.
func NewHelpCommand(catalog *Catalog, access *acl.Service) Command {
	return &HelpCommand{catalog: catalog, acl: access}
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List the commands you can use." }
func (c *HelpCommand) Module() string      { return ModuleBase }

func (c *HelpCommand) Routes() []Route {
	return []Route{{
		Level:   acl.Everyone,
		Spam:    spamchannel.Soft,
		Handler: c.help,
	}}
}

func (c *HelpCommand) help(ctx context.Context, req *Request) error {
	var lines []string
	for _, cmd := range c.catalog.Commands() {
		for _, r := range cmd.Routes() {
			if !r.AvailableIn(req.Invoker.GuildID) {
				continue
			}

			name := QualifiedName(cmd.Name(), r.Path)
			if !c.acl.CanInvoke(ctx, name, r.Level, req.Invoker) {
				continue
			}

			description := r.Description
			if description == "" {
				description = cmd.Description()
			}
			lines = append(lines, "`/"+name+"` "+description)
		}
	}

	if len(lines) == 0 {
		return req.Reply(req.T(ctx, "You can't use any command here."))
	}

	return req.ReplyPages(text.SplitLines(lines, text.MessageLimit))
}
