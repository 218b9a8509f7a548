package services

import (
	"regexp"

	"leedsbot-backend/internal/models"
)

type faqEntry struct {
	pattern *regexp.Regexp
	reply   models.ChatReply
}

// Short definitional questions are answered without touching the store or
// the model.
var faqs = []faqEntry{
	{
		pattern: regexp.MustCompile(`(?i)^\s*what\s+is\s+sql\??\s*$`),
		reply: models.ChatReply{
			Answer: "SQL stands for Structured Query Language. It is the standard language for relational databases—used to define tables (DDL), query data (SELECT), modify data (INSERT/UPDATE/DELETE), and control transactions & permissions.",
			NextSteps: []string{
				"Run a simple SELECT on a demo table",
				"Filter with WHERE and sort with ORDER BY",
				"Join two tables with an INNER JOIN",
			},
			Ask: []string{
				"Which database are you using (MySQL, Postgres, SQL Server, Oracle)?",
				"Do you prefer worked examples or compact theory?",
			},
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(how|what)\b.*\b(insert(ing)? data|insert into)\b`),
		reply: models.ChatReply{
			Answer: "INSERT adds new rows. Basic form: `INSERT INTO table_name (col1, col2) VALUES (val1, val2);`. You can insert multiple rows, or insert from a SELECT.",
			NextSteps: []string{
				"Create a tiny table and insert 2 rows",
				"Insert multiple rows with one statement",
				"Insert-from-select to copy rows from another table",
			},
			Ask: []string{
				"Want examples for your specific database?",
				"Do you have a table schema I can use for the demo?",
			},
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^\s*what\s+is\s+(a\s+)?primary\s+key\??\s*$`),
		reply: models.ChatReply{
			Answer: "A primary key uniquely identifies each row in a table. It is unique and not null, often implemented as an ID column.",
			NextSteps: []string{
				"Create a table with an ID PRIMARY KEY",
				"Insert two rows and try inserting a duplicate ID to see the error",
			},
			Ask: []string{"Want me to show the syntax for your database?"},
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^\s*what\s+is\s+(a\s+)?foreign\s+key\??\s*$`),
		reply: models.ChatReply{
			Answer: "A foreign key enforces a relationship from one table to another by referencing the other table’s primary key, maintaining referential integrity.",
			NextSteps: []string{
				"Create two tables (parent and child) with a foreign key",
				"Try inserting a child row that references a non-existent parent to see the constraint",
			},
			Ask: []string{"Should I target MySQL, Postgres, SQL Server, or Oracle?"},
		},
	},
}

// matchFAQ returns a copy of the canned reply for msg, if any.
func matchFAQ(msg string) (*models.ChatReply, bool) {
	for _, f := range faqs {
		if f.pattern.MatchString(msg) {
			reply := models.ChatReply{
				Answer:    f.reply.Answer,
				NextSteps: append([]string(nil), f.reply.NextSteps...),
				Ask:       append([]string(nil), f.reply.Ask...),
			}
			return &reply, true
		}
	}
	return nil, false
}
