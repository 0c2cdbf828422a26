package application

import "strings"

// RuntimeScript renders the self-contained popup runtime for a service
// base URL. The runtime is identical for every store; it discovers its
// store from the attributes the snippet set on its own script tag.
func RuntimeScript(baseURL string) string {
	return strings.ReplaceAll(runtimeTemplate, "__FOXX_BASE_URL__", strings.TrimSuffix(baseURL, "/"))
}

// runtimeTemplate is delivered to browsers with no module system
// guarantee, so it is a single IIFE guarded by one global flag.
const runtimeTemplate = `(function() {
  'use strict';

  var BASE_URL = '__FOXX_BASE_URL__';
  var TEMP_EMAIL_DOMAINS = [
    'mailinator.com', 'guerrillamail.com', '10minutemail.com',
    'tempmail.com', 'temp-mail.org', 'throwaway.email', 'yopmail.com',
    'trashmail.com', 'sharklasers.com', 'getnada.com', 'dispostable.com'
  ];

  if (window.foxxNewsletterLoaded) {
    return;
  }
  window.foxxNewsletterLoaded = true;

  var tag = document.querySelector('script[data-store-id][data-integration="foxx-newsletter"]');
  if (!tag) {
    console.warn('[foxx-newsletter] script tag not found, popup disabled');
    return;
  }

  var storeId = tag.getAttribute('data-store-id');
  if (!storeId) {
    console.warn('[foxx-newsletter] missing store id, popup disabled');
    return;
  }

  // Domain guard: a copied snippet must not render on another site.
  // Advisory only, not a security boundary.
  var declaredDomain = tag.getAttribute('data-domain');
  if (declaredDomain && window.location.hostname.indexOf(declaredDomain) === -1) {
    return;
  }

  var localKey = 'foxx_subscribed_' + storeId;
  var sessionKey = 'foxx_shown_' + storeId;

  function getJSON(url, cb) {
    var xhr = new XMLHttpRequest();
    xhr.open('GET', url, true);
    xhr.onreadystatechange = function() {
      if (xhr.readyState !== 4) return;
      if (xhr.status >= 200 && xhr.status < 300) {
        try { cb(null, JSON.parse(xhr.responseText)); }
        catch (e) { cb(e, null); }
      } else {
        cb(new Error('status ' + xhr.status), null);
      }
    };
    xhr.send();
  }

  function postJSON(url, body, cb) {
    var xhr = new XMLHttpRequest();
    xhr.open('POST', url, true);
    xhr.setRequestHeader('Content-Type', 'application/json');
    xhr.onreadystatechange = function() {
      if (xhr.readyState !== 4) return;
      var data = null;
      try { data = JSON.parse(xhr.responseText); } catch (e) {}
      if (xhr.status >= 200 && xhr.status < 300) {
        cb(null, data);
      } else {
        cb(data || new Error('status ' + xhr.status), null);
      }
    };
    xhr.send(JSON.stringify(body));
  }

  function safeStorageGet(storage, key) {
    try { return storage.getItem(key); } catch (e) { return null; }
  }

  function safeStorageSet(storage, key, value) {
    try { storage.setItem(key, value); } catch (e) {}
  }

  function isValidEmail(email) {
    return /^[^\s@]+@[^\s@]+\.[^\s@]+$/.test(email);
  }

  function emailDomain(email) {
    return email.split('@')[1].toLowerCase();
  }

  function emailAllowed(email, config) {
    var dom = emailDomain(email);
    if (TEMP_EMAIL_DOMAINS.indexOf(dom) !== -1) {
      return 'Temporary email addresses are not accepted';
    }
    var i;
    if (config.blocked_email_domains && config.blocked_email_domains.length) {
      for (i = 0; i < config.blocked_email_domains.length; i++) {
        if (dom === config.blocked_email_domains[i].toLowerCase()) {
          return 'This email domain is not accepted';
        }
      }
    }
    if (config.allowed_email_domains && config.allowed_email_domains.length) {
      for (i = 0; i < config.allowed_email_domains.length; i++) {
        if (dom === config.allowed_email_domains[i].toLowerCase()) {
          return null;
        }
      }
      return 'Please use your company email address';
    }
    return null;
  }

  function buildField(name, label, type) {
    return '<div class="foxx-field">' +
      '<label for="foxx-' + name + '">' + label + '</label>' +
      '<input id="foxx-' + name + '" name="' + name + '" type="' + (type || 'text') + '" />' +
      '</div>';
  }

  function render(config) {
    var overlay = document.createElement('div');
    overlay.id = 'foxx-popup-overlay';
    overlay.setAttribute('style',
      'position:fixed;top:0;left:0;right:0;bottom:0;background:rgba(0,0,0,0.55);' +
      'z-index:2147483646;display:flex;align-items:center;justify-content:center;');

    var fields = '';
    if (config.collect_email !== false) fields += buildField('email', 'Email', 'email');
    if (config.collect_name) fields += buildField('name', 'Name');
    if (config.collect_phone) fields += buildField('phone', 'Phone', 'tel');
    if (config.collect_company) fields += buildField('company', 'Company');
    if (config.collect_address) fields += buildField('address', 'Address');

    var modal = document.createElement('div');
    modal.id = 'foxx-popup-modal';
    modal.setAttribute('style',
      'background:#fff;border-radius:8px;max-width:420px;width:90%;padding:28px;' +
      'font-family:-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,sans-serif;position:relative;');
    modal.innerHTML =
      '<button id="foxx-popup-close" style="position:absolute;top:10px;right:14px;border:0;' +
      'background:none;font-size:20px;cursor:pointer;">&times;</button>' +
      '<h2 style="margin:0 0 8px;">' + (config.title || 'Join our newsletter') + '</h2>' +
      '<p style="margin:0 0 16px;color:#555;">' + (config.subtitle || '') + '</p>' +
      '<form id="foxx-popup-form">' + fields +
      '<div id="foxx-popup-error" style="color:#c0392b;font-size:13px;margin:8px 0;display:none;"></div>' +
      '<button type="submit" style="width:100%;padding:10px;border:0;border-radius:4px;' +
      'background:#111;color:#fff;font-size:15px;cursor:pointer;">Subscribe</button>' +
      '</form>' +
      '<div id="foxx-popup-success" style="display:none;"></div>';

    overlay.appendChild(modal);
    document.body.appendChild(overlay);
    safeStorageSet(window.sessionStorage, sessionKey, '1');

    function close() {
      if (overlay.parentNode) overlay.parentNode.removeChild(overlay);
    }

    document.getElementById('foxx-popup-close').addEventListener('click', close);
    overlay.addEventListener('click', function(e) {
      if (e.target === overlay) close();
    });

    document.getElementById('foxx-popup-form').addEventListener('submit', function(e) {
      e.preventDefault();
      var errEl = document.getElementById('foxx-popup-error');
      errEl.style.display = 'none';

      var emailInput = document.getElementById('foxx-email');
      var email = emailInput ? emailInput.value.trim() : '';
      if (!isValidEmail(email)) {
        errEl.textContent = 'Please enter a valid email address';
        errEl.style.display = 'block';
        return;
      }
      var reason = emailAllowed(email, config);
      if (reason) {
        errEl.textContent = reason;
        errEl.style.display = 'block';
        return;
      }

      var payload = { email: email, session_id: sessionId() };
      var extras = ['name', 'phone', 'company', 'address'];
      for (var i = 0; i < extras.length; i++) {
        var el = document.getElementById('foxx-' + extras[i]);
        if (el && el.value.trim()) payload[extras[i]] = el.value.trim();
      }

      postJSON(BASE_URL + '/api/subscribe/' + storeId, payload, function(err, data) {
        if (err) {
          errEl.textContent = (err && err.error) ? err.error : 'Something went wrong, please try again';
          errEl.style.display = 'block';
          return;
        }
        safeStorageSet(window.localStorage, localKey, email);
        var successEl = document.getElementById('foxx-popup-success');
        var msg = '<h3 style="margin:0 0 8px;">Thanks for subscribing!</h3>';
        if (data && data.discount_code) {
          msg += '<p>Your ' + (data.discount_percentage || '') +
            (data.discount_percentage ? '% ' : '') + 'discount code:</p>' +
            '<p style="font-size:20px;font-weight:bold;letter-spacing:1px;">' +
            data.discount_code + '</p>';
        }
        successEl.innerHTML = msg;
        successEl.style.display = 'block';
        document.getElementById('foxx-popup-form').style.display = 'none';
        window.setTimeout(close, 6000);
      });
    });
  }

  function sessionId() {
    var key = 'foxx_session_' + storeId;
    var id = safeStorageGet(window.sessionStorage, key);
    if (!id) {
      id = 'fs_' + Date.now().toString(36) + Math.random().toString(36).slice(2, 10);
      safeStorageSet(window.sessionStorage, key, id);
    }
    return id;
  }

  function arm(config) {
    var trigger = config.trigger || 'immediate';
    var fired = false;
    function fire() {
      if (fired) return;
      fired = true;
      render(config);
    }

    if (trigger === 'delay') {
      window.setTimeout(fire, (config.trigger_delay_secs || 5) * 1000);
    } else if (trigger === 'scroll') {
      var threshold = config.trigger_scroll_pct || 50;
      window.addEventListener('scroll', function onScroll() {
        var max = document.documentElement.scrollHeight - window.innerHeight;
        if (max <= 0) return;
        if ((window.scrollY / max) * 100 >= threshold) {
          window.removeEventListener('scroll', onScroll);
          fire();
        }
      });
    } else if (trigger === 'exit') {
      document.addEventListener('mouseout', function onExit(e) {
        if (!e.relatedTarget && e.clientY <= 0) {
          document.removeEventListener('mouseout', onExit);
          fire();
        }
      });
    } else {
      window.setTimeout(fire, 1500);
    }
  }

  // Suppression order: server check wins over the durable client flag,
  // and the session flag suppresses repeat renders in one tab session.
  function decide(config) {
    if (safeStorageGet(window.sessionStorage, sessionKey)) {
      return;
    }
    var rememberedEmail = safeStorageGet(window.localStorage, localKey);
    if (rememberedEmail) {
      getJSON(BASE_URL + '/api/stores/' + storeId + '/check-subscription/' +
        encodeURIComponent(rememberedEmail), function(err, data) {
        if (!err && data && data.isSubscribed) {
          return;
        }
        try { window.localStorage.removeItem(localKey); } catch (e) {}
        arm(config);
      });
      return;
    }
    arm(config);
  }

  getJSON(BASE_URL + '/api/popup-config/' + storeId, function(err, config) {
    if (err || !config) {
      console.warn('[foxx-newsletter] failed to load popup config');
      return;
    }
    if (!config.is_active) return;
    if (!config.is_verified || !config.has_active_script) return;
    decide(config);
  });
})();
`
