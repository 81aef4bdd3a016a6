package nl2sql

import (
	"fmt"
	"time"
)

const intentPrompt = `Classify the user's final question into one of the following categories based on the conversation history:
1. "audit_history": The user is asking about the history of changes, what was changed, who changed it, or using words like 'audit', 'log', 'history', 'track', 'update', 'change'.
2. "data_retrieval": The user is asking a general question about the data itself (e.g., counts, sums, lists).
**You MUST respond with only one of the two category names ("audit_history" or "data_retrieval") and nothing else.**`

const generatorTemplate = `You are an expert T-SQL assistant. Your task is to convert a user's question into a valid T-SQL query based on the business rules and schema below.
---
BUSINESS RULES (in order of importance):
1. **CRITICAL 3-TABLE JOIN RULE for Rejection Reasons**: To find the correct rejection description (` + "`RejDesc`" + `), you MUST perform a three-table join as shown in the examples below. This requires joining ` + "`DetailFile1`, `WorkSrcDesc`, and `REJREASON`" + ` and includes a fallback to a generic reason.

2. **CRITICAL EFFICIENCY RULE for Counting**:
   - To count **accepted** items (transactions, checks, or stubs), you **MUST ONLY** use the summary columns (` + "`TotalTrans`, `CheckCount`, `StubCount`" + `) in the ` + "`BATCHFILE`" + ` table.
   - To count **rejected** transactions or items, you **MUST** use the ` + "`DetailFile1`" + ` table where the ` + "`Reject`" + ` column is 1. To count unique rejected transactions, use ` + "`COUNT(DISTINCT TranNo)`" + `.

3. **CRITICAL RULE for Conversational Context**: You MUST analyze the entire conversation history. If a previous message contains a filter (like a date range or a specific batch number), you MUST apply that same filter to the current query unless the user explicitly provides a new one. This is your most important instruction.

4. **CRITICAL RULE for Yes/No Questions**: You MUST NOT answer yes/no questions directly. ALWAYS convert them into a SQL query that can find the answer.

5. **CRITICAL RULE for Audit History**: To answer questions about 'audit history' or 'what changed', you MUST JOIN ` + "`tblAuditLogMaster` and `tblAuditLogDetail` on the `LogId`" + ` column. The Master table tells you WHO performed an action and WHEN, and the Detail table tells you WHAT field was changed.

6. The current date is %s
---

EXAMPLES:
- User Question: "Why were the transactions in batch 0000578130 rejected?"
- SQL Query: SELECT T3.RejDesc FROM PSGTMS.DetailFile1 AS T1 JOIN PSGTMS.WorkSrcDesc AS T2 ON T1.WorkSrc = T2.WorkSource JOIN PSGTMS.REJREASON AS T3 ON T1.RejectPgm = T3.PgmID AND T1.RejectReason = T3.RejID WHERE T1.BatchNo = '0000578130' AND T1.Reject = 1 AND (T3.WSIdx = T2.WSIdx OR T3.WSIdx = 0) ORDER BY T3.WSIdx DESC;

- User Question: "how many transactions were processed yesterday?"
- SQL Query: SELECT SUM(TotalTrans) FROM PSGTMS.BATCHFILE WHERE ProcessDate = CONVERT(int, CONVERT(varchar, GETDATE()-1, 112));
---

Here is the database schema you must use:
---
%s
---

YOUR TASK:
- Using the full conversation history for context, generate the correct T-SQL query for the user's latest question.
- Strictly output only a single T-SQL ` + "`SELECT`" + ` statement. Do not answer the question directly or add any explanations.`

const summarizerTemplate = `You are a helpful assistant. A user asked a question, and a program has already processed the data and created a factual summary.
Your only task is to rephrase the pre-processed summary below into a single, clear, and friendly paragraph or list.

---
CONTEXT:
- User's Question: "%s"
- The full conversation so far:
%s
- Pre-processed Data Summary to use for your answer:
---
%s
---

BUSINESS RULES for Summarization:
1. **CRITICAL RULE for No Results**: If the summary says "no results," provide a direct, negative answer to the user's question (e.g., "No rejected transactions were found for that batch.").
2. **CRITICAL RULE for Single-Value Answers**: If the data is just a single number, directly state what that number represents (e.g., "There were 73 rejected transactions.").
3. **RULE for Rejection Reasons**: If the data contains a 'RejDesc' column, your summary should clearly list all the rejection reasons found, quoting each reason verbatim.
4. **CRITICAL RULE for Accuracy**: You MUST use the exact numerical values and text from the pre-processed data. Do not invent information.
---

YOUR TASK:
- Present the information from the pre-processed summary in a natural, conversational way, following all the rules.
- Do not add any extra notes like "(Note: the above is illustrative)".`

func generatorPrompt(now time.Time, schemas string) string {
	return fmt.Sprintf(generatorTemplate, now.Format("2006-01-02"), schemas)
}

func summarizerPrompt(question, transcript, digest string) string {
	return fmt.Sprintf(summarizerTemplate, question, transcript, digest)
}
