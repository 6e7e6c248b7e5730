package http

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// GUI 内置上传页面：选图、可选增强、拖动创意度，直接调 /api/captions
func (h *Handler) GUI(ctx context.Context, c *app.RequestContext) {
	c.Data(consts.StatusOK, "text/html; charset=utf-8", []byte(guiPage))
}

const guiPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Caption Platform</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 640px; margin: 48px auto; padding: 0 16px; color: #222; }
  h1 { font-size: 1.4rem; }
  form { border: 1px solid #ddd; border-radius: 8px; padding: 20px; }
  .row { margin-bottom: 14px; }
  label { display: block; margin-bottom: 4px; font-weight: 600; }
  button { padding: 8px 20px; border: none; border-radius: 6px; background: #2563eb; color: #fff; cursor: pointer; }
  button:disabled { background: #9ca3af; }
  #result { margin-top: 20px; padding: 16px; border-radius: 8px; background: #f3f4f6; white-space: pre-wrap; display: none; }
  #error { margin-top: 20px; padding: 16px; border-radius: 8px; background: #fee2e2; color: #991b1b; white-space: pre-wrap; display: none; }
</style>
</head>
<body>
<h1>Image Caption Platform</h1>
<form id="form">
  <div class="row">
    <label for="file">Image</label>
    <input type="file" id="file" name="file" accept="image/*" required>
  </div>
  <div class="row">
    <label><input type="checkbox" id="enhance" checked> Cinematic enhancement</label>
  </div>
  <div class="row">
    <label for="creativity">Creativity: <span id="cval">0.8</span></label>
    <input type="range" id="creativity" min="0" max="1" step="0.05" value="0.8">
  </div>
  <button type="submit" id="submit">Generate caption</button>
</form>
<div id="result"></div>
<div id="error"></div>
<script>
const form = document.getElementById('form');
const slider = document.getElementById('creativity');
slider.addEventListener('input', () => {
  document.getElementById('cval').textContent = slider.value;
});
form.addEventListener('submit', async (e) => {
  e.preventDefault();
  const result = document.getElementById('result');
  const errBox = document.getElementById('error');
  const btn = document.getElementById('submit');
  result.style.display = 'none';
  errBox.style.display = 'none';
  btn.disabled = true;
  btn.textContent = 'Working...';
  try {
    const fd = new FormData();
    fd.append('file', document.getElementById('file').files[0]);
    fd.append('enhance', document.getElementById('enhance').checked);
    fd.append('creativity', slider.value);
    const resp = await fetch('/api/captions', { method: 'POST', body: fd });
    const data = await resp.json();
    if (!resp.ok) {
      errBox.textContent = data.error + (data.details ? '\n' + data.details : '');
      errBox.style.display = 'block';
    } else {
      result.textContent = data.caption;
      result.style.display = 'block';
    }
  } catch (err) {
    errBox.textContent = 'Request failed: ' + err;
    errBox.style.display = 'block';
  } finally {
    btn.disabled = false;
    btn.textContent = 'Generate caption';
  }
});
</script>
</body>
</html>`
