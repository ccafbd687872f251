package server

// indexPage is the single-page upload UI. It posts a layout document to
// /upload and polls /status/{id} until the job reaches a terminal state.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Folio</title>
<link rel="stylesheet" href="/static/css/folio.css">
</head>
<body>
<main class="upload-view">
<h1>Folio</h1>
<p>Upload a JSON layout document to convert it into semantic HTML.</p>
<form id="upload-form">
<input type="file" id="file" name="file" accept=".json" required>
<button type="submit">Convert</button>
</form>
<p id="status"></p>
<p id="links"></p>
</main>
<script>
const form = document.getElementById("upload-form");
const status = document.getElementById("status");
const links = document.getElementById("links");

form.addEventListener("submit", async (event) => {
	event.preventDefault();
	links.textContent = "";
	const data = new FormData();
	data.append("file", document.getElementById("file").files[0]);
	status.textContent = "uploading...";
	const resp = await fetch("/upload", { method: "POST", body: data });
	const body = await resp.json();
	if (!resp.ok) {
		status.textContent = body.error || "upload failed";
		return;
	}
	poll(body.task_id);
});

function poll(id) {
	const timer = setInterval(async () => {
		const resp = await fetch("/status/" + id);
		const job = await resp.json();
		status.textContent = job.step ? job.status + " (" + job.step + ")" : job.status;
		if (job.status === "completed") {
			clearInterval(timer);
			links.innerHTML = '<a href="' + job.result_html + '">view HTML</a> | ' +
				'<a href="' + job.result_json + '">view JSON</a>';
		} else if (job.status === "failed") {
			clearInterval(timer);
			status.textContent = "failed: " + (job.error || "unknown error");
		} else if (job.status === "not_found") {
			clearInterval(timer);
		}
	}, 500);
}
</script>
</body>
</html>
`
