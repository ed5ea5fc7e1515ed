package htmldoc

// stylesheet is embedded in the document head so the output is a single
// self-contained file.
const stylesheet = `body {
  margin: 0;
  font-family: Georgia, "Times New Roman", serif;
  line-height: 1.7;
  background: #f0f0f0;
  color: #222;
}
.document-wrapper {
  max-width: 800px;
  margin: 0 auto;
  padding: 24px 16px;
}
.document-header h1 {
  font-size: 1.6em;
  margin: 0 0 24px;
  text-align: center;
}
.page {
  background: #fff;
  border-radius: 4px;
  box-shadow: 0 1px 4px rgba(0, 0, 0, 0.15);
  margin-bottom: 24px;
  padding: 32px 40px;
}
.page-header {
  border-bottom: 1px solid #e0e0e0;
  color: #888;
  font-size: 0.8em;
  margin-bottom: 16px;
  padding-bottom: 8px;
  text-align: right;
}
.page-content p {
  margin: 0 0 1em;
  text-align: justify;
}
.formula {
  margin: 1em 0;
  overflow-x: auto;
  text-align: center;
}
.formula-inline {
  display: inline;
  margin: 0;
}
.formula-source {
  background: #f7f7f7;
  border-radius: 3px;
  font-size: 0.9em;
  padding: 2px 6px;
}
`
