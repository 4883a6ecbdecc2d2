package generation

import "fmt"

const systemPrompt = `You are a senior full-stack developer who builds complete, working web applications from a short description.
Answer with a brief explanation of what you built, followed by every file of the project.`

// buildPrompt wraps the raw user request in the fixed engineering guidance.
func buildPrompt(request string) string {
	return fmt.Sprintf(`Build the application described below.

## Development rules
1. Write complete, working code. No placeholders, no "TODO: implement".
2. For simple projects put everything in a single index.html with embedded CSS and JavaScript.
3. For larger projects use a clear folder structure and separate files.
4. Use semantic HTML, responsive CSS (flexbox/grid) and modern JavaScript (ES6+).
5. Handle errors and invalid input, and give the user visible feedback.
6. When updating an existing project, preserve the existing files and only change what is needed.

## Output format
Write every file as a fenced code block whose header names the language and the path:

`+"```"+`html:index.html
<!DOCTYPE html>
...
`+"```"+`

`+"```"+`css:styles.css
...
`+"```"+`

The entry point of a browser app must be index.html.

User request:
%s`, request)
}
