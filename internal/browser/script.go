// File: internal/browser/script.go
package browser

// JavaScript evaluated in the page. Every snippet is an IIFE-ready function
// expression; callers wrap it with its arguments via fmt.Sprintf. The
// selector strategy here mirrors the one used for static documents so
// selectors stay comparable across both page implementations.

const selectorHelperJS = `
function __aaSelector(el) {
  if (el.id) return '#' + CSS.escape(el.id);
  if (el.name) return el.tagName.toLowerCase() + '[name="' + el.name + '"]';
  const parts = [];
  let node = el;
  while (node && node.nodeType === 1) {
    const tag = node.tagName.toLowerCase();
    if (tag === 'body' || tag === 'html') break;
    let seg = tag;
    for (const c of node.classList) seg += '.' + CSS.escape(c);
    let idx = 1, sib = node;
    while ((sib = sib.previousElementSibling)) idx++;
    parts.unshift(seg + ':nth-child(' + idx + ')');
    node = node.parentElement;
  }
  return 'body > ' + parts.join(' > ');
}
function __aaVisible(el) {
  const s = getComputedStyle(el);
  if (s.display === 'none' || s.visibility === 'hidden') return false;
  return el.getClientRects().length > 0;
}
function __aaLabel(el) {
  if (el.id) {
    const l = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
    if (l) return l.innerText.trim();
  }
  const anc = el.closest('label');
  if (anc) return anc.innerText.trim();
  return (el.getAttribute('aria-label') || '').trim();
}
`

// controlsJS snapshots every input, textarea and select in document order.
const controlsJS = `(function() {
` + selectorHelperJS + `
  const out = [];
  for (const el of document.querySelectorAll('input, textarea, select')) {
    const tag = el.tagName.toLowerCase();
    const type = (el.type || '').toLowerCase();
    out.push({
      selector: __aaSelector(el),
      tag: tag,
      type: type,
      name: el.name || '',
      id: el.id || '',
      placeholder: el.placeholder || '',
      ariaLabel: el.getAttribute('aria-label') || '',
      autocomplete: el.getAttribute('autocomplete') || '',
      label: __aaLabel(el),
      value: (type === 'checkbox' || type === 'radio') ? (el.checked ? el.value : '') : (el.value || ''),
      required: el.required || el.getAttribute('aria-required') === 'true',
      disabled: el.disabled,
      readOnly: !!el.readOnly,
      visible: __aaVisible(el),
      hasFile: type === 'file' && el.files && el.files.length > 0,
    });
  }
  return out;
})()`

// buttonsJS snapshots the action-candidate pool.
const buttonsJS = `(function() {
` + selectorHelperJS + `
  const seen = new Set();
  const out = [];
  for (const el of document.querySelectorAll('button, input[type="submit"], [role="button"]')) {
    if (seen.has(el)) continue;
    seen.add(el);
    let text = (el.innerText || '').replace(/\s+/g, ' ').trim();
    if (!text) text = (el.value || '').trim();
    if (!text) text = (el.getAttribute('aria-label') || '').trim();
    out.push({
      selector: __aaSelector(el),
      text: text,
      visible: __aaVisible(el),
      disabled: !!el.disabled || el.getAttribute('aria-disabled') === 'true',
    });
  }
  return out;
})()`

// setValueJS writes through the native value setter so framework-managed
// inputs (React and friends) observe the change, then dispatches input and
// change in that order.
const setValueJS = `function(sel, val) {
  const el = document.querySelector(sel);
  if (!el) return false;
  const tag = el.tagName.toLowerCase();
  const proto = tag === 'textarea' ? HTMLTextAreaElement.prototype
    : tag === 'select' ? HTMLSelectElement.prototype
    : HTMLInputElement.prototype;
  const setter = Object.getOwnPropertyDescriptor(proto, 'value');
  if (setter && setter.set) setter.set.call(el, val); else el.value = val;
  el.dispatchEvent(new Event('input', { bubbles: true }));
  el.dispatchEvent(new Event('change', { bubbles: true }));
  return true;
}`

const valueJS = `function(sel) {
  const el = document.querySelector(sel);
  if (!el) return null;
  const type = (el.type || '').toLowerCase();
  if (type === 'checkbox' || type === 'radio') return el.checked ? el.value : '';
  return el.value || '';
}`

const hasFileJS = `function(sel) {
  const el = document.querySelector(sel);
  if (!el) return null;
  return !!(el.files && el.files.length > 0);
}`

// resetMarksJS clears highlight classes from a previous pass and installs
// the style block exactly once.
const resetMarksJS = `function(styleId, css) {
  for (const el of document.querySelectorAll('.autoapply-filled, .autoapply-file')) {
    el.classList.remove('autoapply-filled', 'autoapply-file');
  }
  if (!document.getElementById(styleId)) {
    const style = document.createElement('style');
    style.id = styleId;
    style.textContent = css;
    document.head.appendChild(style);
  }
  return true;
}`

const highlightJS = `function(sel, cls) {
  const el = document.querySelector(sel);
  if (!el) return false;
  el.classList.add(cls);
  return true;
}`

const scrollIntoViewJS = `function(sel) {
  const el = document.querySelector(sel);
  if (!el) return false;
  el.scrollIntoView({ behavior: 'smooth', block: 'center' });
  return true;
}`

const clickJS = `function(sel) {
  const el = document.querySelector(sel);
  if (!el) return false;
  el.click();
  return true;
}`

const highlightCSS = `.autoapply-filled{outline:2px solid #22c55e;outline-offset:1px}` +
	`.autoapply-file{outline:2px dashed #f59e0b;outline-offset:1px}`
