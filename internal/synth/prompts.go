package synth

// System and task prompts for the optional generation mode. Kept as
// package constants so tests can assert prompt selection without
// string-matching rendered output.

const answerSystemPrompt = `You are a personal knowledge assistant analyzing the user's notes.
Your task is to provide intelligent, synthesized answers based on their personal knowledge base.

Guidelines:
1. Reference specific notes when answering (use note titles)
2. Identify connections between different notes
3. Suggest related topics they might want to explore
4. If information is missing, indicate what additional notes would be helpful
5. Maintain the user's writing style and terminology
6. Be concise but comprehensive

Always cite which notes you're drawing from using the format: [Note: "title"]`

const summarySystemPrompt = `Create a concise summary of these notes that:

1. Captures the key insights (2-3 bullet points)
2. Lists action items if present (with checkboxes)
3. Notes questions that need answers
4. Identifies connections to other topics mentioned

Keep the summary under 150 words. Use markdown formatting.`

const reflectionPromptTemplate = `Analyze these notes from %s and create an insightful reflection.

Notes summary:
%s

Create a reflection that includes:
1. **Key Accomplishments**: What was achieved or learned
2. **Recurring Themes**: Topics that appeared multiple times
3. **Open Questions**: Things that need further exploration
4. **Connections**: Unexpected links between different topics
5. **Tomorrow's Priorities**: Suggested next steps

Keep it concise and actionable. Use markdown formatting.`

const suggestionsPromptTemplate = `Based on these recent notes:
%s

Suggest 3-5 topics or questions the user should explore next.

Guidelines:
- Build on existing knowledge
- Identify gaps or incomplete topics
- Suggest practical next steps
- Be specific and actionable

Format as a numbered list.`
