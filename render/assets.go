package render

// Stylesheet holds the default rules for the class names HTML emits. Text
// blocks inherit their size from the inline font-size the renderer computes,
// so the rules here only reset browser defaults and pin positioning. The
// server serves it under the default Config.Stylesheet href; the CLI writes
// it next to one-shot output.
const Stylesheet = `body.pdf-render-view {
	background: #525659;
	margin: 0;
	padding: 24px 0;
	font-family: Helvetica, Arial, sans-serif;
}

.pdf-page {
	position: relative;
	margin: 0 auto 24px;
	background: #fff;
	box-shadow: 0 2px 8px rgba(0, 0, 0, 0.4);
	overflow: hidden;
}

.text-block {
	position: absolute;
	margin: 0;
	line-height: 1.2;
	overflow-wrap: break-word;
}

.text-block h1,
.text-block h2,
.text-block h3,
.text-block h4,
.text-block h5,
.text-block h6,
.text-block p {
	font-size: inherit;
	font-weight: inherit;
	margin: 0;
}

.text-block h1,
.text-block h2,
.text-block h3 {
	font-weight: bold;
}

.pdf-image {
	position: absolute;
}

.pdf-vectors {
	position: absolute;
	top: 0;
	left: 0;
	pointer-events: none;
}

.upload-view {
	max-width: 540px;
	margin: 48px auto;
	padding: 24px;
	background: #fff;
	border-radius: 4px;
}
`
