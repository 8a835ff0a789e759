package recorder

// clickListenerJS instruments the page with a capture-phase click listener.
// For each click it derives the most portable selector for the target
// element, first applicable rule wins: test-id attribute, role plus
// accessible name, short visible text, id, first class, tag name. The
// result is posted through the exposed host binding.
const clickListenerJS = `(() => {
  if (window.__screenboardRecorderInstalled) return;
  window.__screenboardRecorderInstalled = true;

  const implicitRoles = {
    A: 'link',
    BUTTON: 'button',
    INPUT: 'textbox',
    SELECT: 'combobox',
    TEXTAREA: 'textbox',
  };

  const accessibleName = (el) => {
    const label = el.getAttribute && el.getAttribute('aria-label');
    if (label) return label.trim();
    return (el.textContent || '').trim();
  };

  const deriveSelector = (el) => {
    if (!el || !el.getAttribute) return null;

    const testId = el.getAttribute('data-testid');
    if (testId) return { testId };

    const role = el.getAttribute('role') || implicitRoles[el.tagName];
    if (role) {
      const name = accessibleName(el);
      return name ? { role, name } : { role };
    }

    const text = (el.textContent || '').trim();
    if (text && text.length < 80) return { text };

    if (el.id) return { css: '#' + el.id };

    const cls = (el.className && typeof el.className === 'string')
      ? el.className.trim().split(/\s+/)[0]
      : '';
    if (cls) return { css: '.' + cls };

    return { css: el.tagName.toLowerCase() };
  };

  document.addEventListener('click', (event) => {
    const selector = deriveSelector(event.target);
    if (selector && window.__screenboardRecordClick) {
      window.__screenboardRecordClick(selector);
    }
  }, true);
})();`
